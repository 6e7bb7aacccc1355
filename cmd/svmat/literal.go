// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/nicshackle/libsurvive/svmat"
	"github.com/nicshackle/libsurvive/svtype"
)

var errEmptyLiteral = errors.New("empty matrix literal")

// parseMatrix reads "a,b;c,d" into an owned matrix. Blank rows (e.g. from a
// trailing ';') are ignored; every remaining row needs the same width.
func parseMatrix(lit string) (*svmat.Mat, error) {
	rows := lo.Filter(
		lo.Map(strings.Split(lit, ";"), func(r string, _ int) string { return strings.TrimSpace(r) }),
		func(r string, _ int) bool { return r != "" },
	)
	if len(rows) == 0 {
		return nil, errEmptyLiteral
	}

	cells := lo.Map(rows, func(r string, _ int) []string {
		return lo.Map(strings.Split(r, ","), func(c string, _ int) string { return strings.TrimSpace(c) })
	})
	widths := lo.Uniq(lo.Map(cells, func(r []string, _ int) int { return len(r) }))
	if len(widths) != 1 {
		return nil, fmt.Errorf("ragged matrix literal: row widths %v", widths)
	}

	m, err := svmat.Create(len(cells), widths[0])
	if err != nil {
		return nil, err
	}
	for i, row := range cells {
		for j, c := range row {
			v, err := strconv.ParseFloat(c, 64)
			if err != nil {
				svmat.ReleaseMat(&m)
				return nil, fmt.Errorf("cell [%d,%d]: %w", i, j, err)
			}
			m.Set(i, j, svtype.Float(v))
		}
	}

	return m, nil
}

// formatMatrix renders m back in literal syntax, one row per line.
func formatMatrix(m *svmat.Mat) string {
	lines := make([]string, m.Rows)
	for i := range lines {
		lines[i] = strings.Join(lo.Map(m.Row(i), func(v svtype.Float, _ int) string {
			return strconv.FormatFloat(float64(v), 'g', 6, 64)
		}), ", ")
	}

	return strings.Join(lines, "\n")
}
