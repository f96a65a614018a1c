package services

import (
	"errors"
	"fmt"
)

// ChecklistStep is one checkable line. ID is stable for a given trailer
// composition and unique within one generated checklist.
type ChecklistStep struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ChecklistSection struct {
	Key   string          `json:"key"`
	Title string          `json:"title"`
	Group SectionGroup    `json:"group,omitempty"`
	Steps []ChecklistStep `json:"steps"`
}

func buildSection(prefix string, st sectionTemplate) ChecklistSection {
	key := st.key
	if prefix != "" {
		key = prefix + "-" + key
	}
	steps := make([]ChecklistStep, len(st.steps))
	for i, label := range st.steps {
		steps[i] = ChecklistStep{ID: fmt.Sprintf("%s-%d", key, i), Label: label}
	}
	return ChecklistSection{Key: key, Title: st.title, Group: st.group, Steps: steps}
}

// GenerateChecklist expands the selection's trailers into inspection sections:
// the general safety section followed, per typed trailer, by a divider and the
// sections of that trailer's template. A selection without trailers has no
// checklist.
func GenerateChecklist(sel Selection) []ChecklistSection {
	if len(sel.Trailers) == 0 {
		return []ChecklistSection{}
	}
	sections := []ChecklistSection{buildSection("", safetyGeneral)}
	for pos, tr := range sel.Trailers {
		key, ok := TemplateFor(tr.Type)
		if !ok {
			continue
		}
		tmpl, ok := lookupTemplate(key)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("t%d", pos)
		sections = append(sections, ChecklistSection{
			Key:   prefix,
			Title: fmt.Sprintf("Checklist para Remolque %d: %s", pos+1, tr.Type.Label()),
			Group: GroupDivider,
			Steps: []ChecklistStep{},
		})
		for _, st := range tmpl.sections {
			sections = append(sections, buildSection(prefix, st))
		}
	}
	return sections
}

// ChecklistTemplate is a catalogue entry for printing blank checklists.
type ChecklistTemplate struct {
	Key      TemplateKey
	Title    string
	Trailers []TrailerType
	Sections []ChecklistSection
}

// ChecklistTemplates lists the safety sections and every trailer template,
// including those no trailer type currently maps to.
func ChecklistTemplates() []ChecklistTemplate {
	out := []ChecklistTemplate{{
		Key:   "seguridad",
		Title: "Seguridad",
		Sections: []ChecklistSection{
			buildSection("", safetyGeneral),
			buildSection("", safetyTank),
		},
	}}
	for _, tt := range trailerTemplates {
		ct := ChecklistTemplate{Key: tt.key, Title: tt.title}
		for _, t := range TrailerTypes {
			if templateForTrailer[t] == tt.key {
				ct.Trailers = append(ct.Trailers, t)
			}
		}
		for _, st := range tt.sections {
			ct.Sections = append(ct.Sections, buildSection(string(tt.key), st))
		}
		out = append(out, ct)
	}
	return out
}

// CountSteps returns the number of checkable steps across sections.
func CountSteps(sections []ChecklistSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.Steps)
	}
	return n
}

// ── check state ──────────────────────────────────────────────────────────

// CheckPhase is one of the two independent checks per step.
type CheckPhase string

const (
	PhaseIntake  CheckPhase = "entrada"
	PhaseRelease CheckPhase = "salida"
)

func ParseCheckPhase(s string) (CheckPhase, bool) {
	switch CheckPhase(s) {
	case PhaseIntake, PhaseRelease:
		return CheckPhase(s), true
	}
	return "", false
}

var (
	ErrUnknownStep  = errors.New("unknown checklist step")
	ErrUnknownPhase = errors.New("unknown checklist phase")
)

type StepCheck struct {
	AtIntake  bool `json:"entrada"`
	AtRelease bool `json:"salida"`
}

// ChecklistState records the checks for one generated checklist. Composition
// is the trailer fingerprint the state was built for.
type ChecklistState struct {
	Composition string               `json:"composition"`
	Steps       map[string]StepCheck `json:"steps"`
}

// NewChecklistState returns an all-unchecked state for sections.
func NewChecklistState(sections []ChecklistSection, composition string) ChecklistState {
	st := ChecklistState{Composition: composition, Steps: make(map[string]StepCheck, CountSteps(sections))}
	for _, s := range sections {
		for _, step := range s.Steps {
			st.Steps[step.ID] = StepCheck{}
		}
	}
	return st
}

// Reconcile resets the state to all-unchecked when composition differs from
// the one it was built for. Checks are never carried across compositions. It
// reports whether a reset happened.
func (st *ChecklistState) Reconcile(sections []ChecklistSection, composition string) bool {
	if st.Steps != nil && st.Composition == composition {
		return false
	}
	*st = NewChecklistState(sections, composition)
	return true
}

// Toggle flips one phase of one step and returns the new value.
func (st *ChecklistState) Toggle(stepID string, phase CheckPhase) (bool, error) {
	check, ok := st.Steps[stepID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	var v bool
	switch phase {
	case PhaseIntake:
		check.AtIntake = !check.AtIntake
		v = check.AtIntake
	case PhaseRelease:
		check.AtRelease = !check.AtRelease
		v = check.AtRelease
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
	st.Steps[stepID] = check
	return v, nil
}

// Checked reports the value of one phase of one step.
func (st ChecklistState) Checked(stepID string, phase CheckPhase) bool {
	check := st.Steps[stepID]
	if phase == PhaseRelease {
		return check.AtRelease
	}
	return check.AtIntake
}

// Progress counts checked phases against the total available.
func (st ChecklistState) Progress() (done, total int) {
	for _, c := range st.Steps {
		total += 2
		if c.AtIntake {
			done++
		}
		if c.AtRelease {
			done++
		}
	}
	return done, total
}
