package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from the first arg and returns the
// remaining args.
//
// Accepted forms:
//  1. All digits → the id ("3")
//  2. '#' followed by digits → the id ("#3")
//
// Anything else, including 0, is an invalid task id.
func ParseTaskID(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskIDRequired
	}

	ref := strings.TrimPrefix(args[0], "#")
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task id: %s", args[0])
	}
	id, err := strconv.Atoi(ref)
	if err != nil || id < 1 {
		return 0, nil, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
