package pool

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Role describes the meaning of one column in a delimited pool file.
type Role int

// The set of column roles is closed: the row parser dispatches over it with
// an exhaustive table and treats anything else as an internal invariant
// violation.
const (
	RoleNum Role = iota
	RoleCateg
	RoleLabel
	// RoleWeight and RoleGroupWeight are distinct roles but feed the same
	// builder weight slot; GroupWeight additionally scales pair weights.
	RoleWeight
	RoleGroupWeight
	RoleGroupID
	RoleSubgroupID
	RoleBaseline
	RoleDocID
	RoleTimestamp
	RoleAuxiliary

	roleCount
)

var roleNames = [roleCount]string{
	RoleNum:         "Num",
	RoleCateg:       "Categ",
	RoleLabel:       "Label",
	RoleWeight:      "Weight",
	RoleGroupWeight: "GroupWeight",
	RoleGroupID:     "GroupId",
	RoleSubgroupID:  "SubgroupId",
	RoleBaseline:    "Baseline",
	RoleDocID:       "DocId",
	RoleTimestamp:   "Timestamp",
	RoleAuxiliary:   "Auxiliary",
}

// String returns the role name as it appears in column description files.
func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// IsFeature reports whether the role occupies a feature slot.
func (r Role) IsFeature() bool {
	return r == RoleNum || r == RoleCateg
}

// ParseRole maps a role name from a column description file to its Role.
// The aliases "Target" (for Label) and "QueryId" (for GroupId) are accepted.
func ParseRole(name string) (Role, bool) {
	switch name {
	case "Target":
		return RoleLabel, true
	case "QueryId":
		return RoleGroupID, true
	}
	for r, n := range roleNames {
		if n == name {
			return Role(r), true
		}
	}
	return 0, false
}

// Column describes one column of a pool file: its role and an optional name
// used for feature id generation.
type Column struct {
	Role Role
	Name string
}

// DefaultColumns builds the schema used when no column description file is
// given: the first column is the label and every other column is a numeric
// feature.
func DefaultColumns(columnCount int) []Column {
	columns := make([]Column, columnCount)
	columns[0].Role = RoleLabel
	for i := 1; i < columnCount; i++ {
		columns[i].Role = RoleNum
	}
	return columns
}

// ReadColumnDescription parses a column description sidecar file into a
// schema of columnCount columns. Each non-blank, non-comment line has the
// form "index<TAB>role[<TAB>name]". Columns not mentioned in the file
// default to Num.
func ReadColumnDescription(path string, columnCount int) ([]Column, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open column description %s: %w", path, err)
	}
	defer rc.Close()

	columns := make([]Column, columnCount)
	for i := range columns {
		columns[i].Role = RoleNum
	}
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(rc)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 && len(fields) != 3 {
			return nil, &SchemaError{Path: path, Line: lineNo, Reason: fmt.Sprintf("expected 2 or 3 tab-separated fields, found %d", len(fields))}
		}
		idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, &SchemaError{Path: path, Line: lineNo, Reason: fmt.Sprintf("column index %q is not an integer", fields[0])}
		}
		if idx < 0 || idx >= columnCount {
			return nil, &SchemaError{Path: path, Line: lineNo, Reason: fmt.Sprintf("column index %d out of range [0, %d)", idx, columnCount)}
		}
		if seen[idx] {
			return nil, &SchemaError{Path: path, Line: lineNo, Reason: fmt.Sprintf("column %d described more than once", idx)}
		}
		seen[idx] = true
		role, ok := ParseRole(strings.TrimSpace(fields[1]))
		if !ok {
			return nil, &SchemaError{Path: path, Line: lineNo, Reason: fmt.Sprintf("unknown column role %q", fields[1])}
		}
		columns[idx].Role = role
		if len(fields) == 3 {
			columns[idx].Name = strings.TrimSpace(fields[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read column description %s: %w", path, err)
	}

	return columns, nil
}
