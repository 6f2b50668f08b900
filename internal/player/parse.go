package player

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

const (
	cropMarker     = "crop="
	progressMarker = "V: "
	tailLines      = 10
)

type lineKind int

const (
	lineLog lineKind = iota
	lineCrop
	lineProgress
)

type parsedLine struct {
	kind    lineKind
	crop    string
	percent int
	status  string
}

// lineParser classifies player output and keeps the incidental tail.
type lineParser struct {
	tail []string
}

func (p *lineParser) parse(line string, elapsed time.Duration) parsedLine {
	if candidate, ok := parseCropCandidate(line); ok {
		return parsedLine{kind: lineCrop, crop: candidate}
	}
	if strings.Contains(line, progressMarker) {
		percent, status := parseProgress(line, elapsed)
		return parsedLine{kind: lineProgress, percent: percent, status: status}
	}
	p.remember(line)
	return parsedLine{kind: lineLog}
}

func (p *lineParser) remember(line string) {
	if len(p.tail) == tailLines {
		copy(p.tail, p.tail[1:])
		p.tail = p.tail[:tailLines-1]
	}
	p.tail = append(p.tail, line)
}

func (p *lineParser) lastLines() []string {
	return append([]string(nil), p.tail...)
}

// parseCropCandidate returns the text following the cropdetect marker up to
// the next whitespace. ok is true whenever the marker is present.
func parseCropCandidate(line string) (string, bool) {
	idx := strings.Index(line, cropMarker)
	if idx < 0 {
		return "", false
	}
	fields := strings.Fields(line[idx+len(cropMarker):])
	if len(fields) == 0 {
		return "", true
	}
	return fields[0], true
}

// parseProgress extracts completion from a status line. The braced encoder
// estimate ("{2.5min}") is preferred; it is converted with the wall time
// already spent. Otherwise the playback position "(42%)" is used. percent is
// -1 when neither is present.
func parseProgress(line string, elapsed time.Duration) (int, string) {
	var status string
	if open := strings.IndexByte(line, '{'); open >= 0 {
		if end := strings.IndexByte(line[open+1:], '}'); end >= 0 {
			status = line[open+1 : open+1+end]
			if percent, ok := percentFromRemaining(status, elapsed); ok {
				return percent, status
			}
		}
	}
	if percent, ok := percentFromPosition(line); ok {
		return percent, status
	}
	return -1, ""
}

func percentFromRemaining(status string, elapsed time.Duration) (int, bool) {
	idx := strings.Index(status, "min")
	if idx <= 0 {
		return 0, false
	}
	fields := strings.Fields(status[:idx])
	if len(fields) == 0 {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || minutes < 0 {
		return 0, false
	}
	spent := elapsed.Seconds()
	total := spent + minutes*60
	if total <= 0 {
		return 0, false
	}
	return clampPercent(int(99 * spent / total)), true
}

func percentFromPosition(line string) (int, bool) {
	end := strings.Index(line, "%)")
	if end < 0 {
		return 0, false
	}
	start := strings.LastIndexByte(line[:end], '(')
	if start < 0 {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(line[start+1 : end]))
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 99 {
		return 99
	}
	return value
}

// scanLines splits on '\n' or '\r'; the player redraws its status line with
// carriage returns.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
