package player

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminate(proc *os.Process) error {
	return proc.Signal(unix.SIGTERM)
}
