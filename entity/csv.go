package entity

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/hupe1980/hypergo/core"
)

// CSV input formats, matching the persisted entity-table artifacts:
//
//	individuals: individual_id,true_group,family_id,environment
//	traits:      individual_id,trait_0,...,trait_n
//	genetic:     header row of ids, then one row per id (first column = row id)
//
// A family_id of "-1" marks an unaffiliated individual and maps to the empty
// family.

// LoadCSV reads the individuals and traits tables and returns a validated
// store. Column order within a file is fixed by the header row.
func LoadCSV(individuals, traits io.Reader, opts ...LoadOption) (*Store, error) {
	base, err := readIndividuals(individuals)
	if err != nil {
		return nil, err
	}

	traitVecs, names, err := readTraits(traits)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(base))
	for _, e := range base {
		tv, ok := traitVecs[e.ID]
		if !ok {
			return nil, &ValidationError{EntityID: e.ID, Field: "traits", Reason: "no trait row"}
		}
		e.Traits = tv
		entities = append(entities, e)
	}

	opts = append([]LoadOption{WithTraitNames(names)}, opts...)
	return Load(entities, opts...)
}

func readIndividuals(r io.Reader) ([]Entity, error) {
	rows, header, err := readTable(r, "individuals")
	if err != nil {
		return nil, err
	}

	col := columnIndex(header)
	for _, required := range []string{"individual_id", "family_id", "environment"} {
		if _, ok := col[required]; !ok {
			return nil, &ValidationError{Field: required, Reason: "column missing from individuals table"}
		}
	}
	groupCol, hasGroup := col["true_group"]

	entities := make([]Entity, 0, len(rows))
	for _, row := range rows {
		id, err := parseNodeID(row[col["individual_id"]])
		if err != nil {
			return nil, &ValidationError{Field: "individual_id", Reason: err.Error()}
		}

		family := row[col["family_id"]]
		if family == "-1" {
			family = ""
		}

		e := Entity{
			ID:          id,
			Family:      family,
			Environment: row[col["environment"]],
		}
		if hasGroup {
			e.TrueGroup = row[groupCol]
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func readTraits(r io.Reader) (map[core.NodeID][]float32, []string, error) {
	rows, header, err := readTable(r, "traits")
	if err != nil {
		return nil, nil, err
	}

	col := columnIndex(header)
	idCol, ok := col["individual_id"]
	if !ok {
		return nil, nil, &ValidationError{Field: "individual_id", Reason: "column missing from traits table"}
	}

	var names []string
	var traitCols []int
	for i, name := range header {
		if i == idCol {
			continue
		}
		names = append(names, name)
		traitCols = append(traitCols, i)
	}

	vecs := make(map[core.NodeID][]float32, len(rows))
	for _, row := range rows {
		id, err := parseNodeID(row[idCol])
		if err != nil {
			return nil, nil, &ValidationError{Field: "individual_id", Reason: err.Error()}
		}

		vec := make([]float32, len(traitCols))
		for j, c := range traitCols {
			v, err := strconv.ParseFloat(row[c], 32)
			if err != nil {
				return nil, nil, &ValidationError{
					EntityID: id,
					Field:    names[j],
					Reason:   fmt.Sprintf("not numeric: %q", row[c]),
				}
			}
			vec[j] = float32(v)
		}
		vecs[id] = vec
	}
	return vecs, names, nil
}

// LoadGeneticCSV reads a square genetic-distance matrix. The result is
// reordered into ascending-id order so it can be passed to WithGeneticMatrix
// directly.
func LoadGeneticCSV(r io.Reader) ([][]float32, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ValidationError{Field: "genetic_matrix", Reason: err.Error()}
	}
	if len(records) < 2 {
		return nil, &ValidationError{Field: "genetic_matrix", Reason: "empty table"}
	}

	header := records[0]
	colIDs := make([]core.NodeID, 0, len(header)-1)
	for _, cell := range header[1:] {
		id, err := parseNodeID(cell)
		if err != nil {
			return nil, &ValidationError{Field: "genetic_matrix", Reason: err.Error()}
		}
		colIDs = append(colIDs, id)
	}

	byRow := make(map[core.NodeID][]float32, len(records)-1)
	for _, row := range records[1:] {
		if len(row) != len(colIDs)+1 {
			return nil, &ValidationError{Field: "genetic_matrix", Reason: "ragged row"}
		}
		id, err := parseNodeID(row[0])
		if err != nil {
			return nil, &ValidationError{Field: "genetic_matrix", Reason: err.Error()}
		}
		vals := make([]float32, len(colIDs))
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 32)
			if err != nil {
				return nil, &ValidationError{EntityID: id, Field: "genetic_matrix", Reason: fmt.Sprintf("not numeric: %q", cell)}
			}
			vals[j] = float32(v)
		}
		byRow[id] = vals
	}
	if len(byRow) != len(colIDs) {
		return nil, &ValidationError{Field: "genetic_matrix", Reason: "row/column id mismatch"}
	}

	// Reorder rows and columns into ascending-id order.
	sorted := make([]core.NodeID, len(colIDs))
	copy(sorted, colIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	colPos := make(map[core.NodeID]int, len(colIDs))
	for i, id := range colIDs {
		colPos[id] = i
	}

	m := make([][]float32, len(sorted))
	for i, rowID := range sorted {
		src, ok := byRow[rowID]
		if !ok {
			return nil, &ValidationError{EntityID: rowID, Field: "genetic_matrix", Reason: "missing row"}
		}
		row := make([]float32, len(sorted))
		for j, colID := range sorted {
			row[j] = src[colPos[colID]]
		}
		m[i] = row
	}
	return m, nil
}

func readTable(r io.Reader, name string) (rows [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, &ValidationError{Field: name, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, nil, &ValidationError{Field: name, Reason: "empty table"}
	}
	return records[1:], records[0], nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	return col
}

func parseNodeID(s string) (core.NodeID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid entity id %q", s)
	}
	return core.NodeID(v), nil
}
