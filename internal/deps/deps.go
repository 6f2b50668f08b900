package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary super8 relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency. Detail holds the
// resolved path when a bare command name was found on PATH, or the reason
// it was not.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Blocking reports whether a missing dependency prevents super8 from running.
func (s Status) Blocking() bool {
	return !s.Available && !s.Optional
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = checkBinary(req)
	}
	return results
}

func checkBinary(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found (set player.binary or SUPER8_PLAYER)", req.Command)
		return status
	}
	status.Available = true
	if resolved != req.Command {
		status.Detail = resolved
	}
	return status
}
