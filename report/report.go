// Package report writes a training run to an XLSX workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/CodeStranger-Fred/qlearning/mdp"
)

const (
	QTableSheet      = "QTable"
	TransitionsSheet = "Transitions"
	EpisodesSheet    = "Episodes"
)

// Report is everything a workbook is built from.
type Report struct {
	QTable      []mdp.QEntry
	Transitions []mdp.TransitionEntry
	Episodes    []mdp.EpisodeResult

	// ActionName renders action ids. Nil prints the number.
	ActionName func(mdp.Action) string
}

func (r Report) action(a mdp.Action) string {
	if r.ActionName == nil {
		return fmt.Sprintf("%d", a)
	}
	return r.ActionName(a)
}

// Build fills a new workbook with one sheet per table. The caller closes it.
func Build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name    string
		headers []interface{}
		rows    [][]interface{}
	}{
		{QTableSheet, []interface{}{"State", "Action", "Q-Value"}, r.qtableRows()},
		{TransitionsSheet, []interface{}{"State", "Action", "Next State"}, r.transitionRows()},
		{EpisodesSheet, []interface{}{"Episode", "Session", "Outcome", "Steps", "Terminal", "Reward"}, r.episodeRows()},
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := f.SetSheetRow(s.name, "A1", &s.headers); err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s header: %w", s.name, err)
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("write %s row %d: %w", s.name, i+1, err)
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path.
func WriteWorkbook(path string, r Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (r Report) qtableRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.QTable))
	for _, e := range r.QTable {
		rows = append(rows, []interface{}{int(e.State), r.action(e.Action), e.Value})
	}
	return rows
}

func (r Report) transitionRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Transitions))
	for _, t := range r.Transitions {
		rows = append(rows, []interface{}{int(t.State), r.action(t.Action), int(t.Next)})
	}
	return rows
}

func (r Report) episodeRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Episodes))
	for i, e := range r.Episodes {
		terminal := ""
		if e.Terminal != mdp.InvalidState {
			terminal = fmt.Sprintf("%d", e.Terminal)
		}
		rows = append(rows, []interface{}{i + 1, e.Session.String(), e.Outcome.String(), e.Steps, terminal, e.Reward})
	}
	return rows
}
