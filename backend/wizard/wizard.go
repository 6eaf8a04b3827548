// Package wizard holds the course-builder state machine: the three-step
// Information -> Builder -> Publish flow an instructor walks through when
// creating or editing a course. The wizard itself never touches the
// database; it decides which transition is legal and which fields an
// update request should carry.
package wizard

import (
	"errors"
	"fmt"
)

type Step int

const (
	StepInformation Step = iota + 1
	StepBuilder
	StepPublish
)

func (s Step) String() string {
	switch s {
	case StepInformation:
		return "Information"
	case StepBuilder:
		return "Builder"
	case StepPublish:
		return "Publish"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

var (
	ErrNoChanges    = errors.New("no changes made to the form")
	ErrCannotGoBack = errors.New("already at the first step")
	ErrNotAtBuilder = errors.New("not at the builder step")
	ErrNotAtPublish = errors.New("not at the publish step")
)

// CourseInfo is the Information-step form. The zero Price is legal (free
// course); a negative one is not.
type CourseInfo struct {
	Name             string
	Description      string
	WhatYouWillLearn string
	Price            float64
	CategoryID       uint
	Thumbnail        string
}

// SectionSummary is what the Builder exit condition inspects: a section
// name and how many lectures it holds.
type SectionSummary struct {
	Name     string
	Lectures int
}

// Wizard is one instructor's in-flight course draft. Editing wizards carry
// the loaded baseline so Information submissions send only changed fields.
type Wizard struct {
	step     Step
	editing  bool
	courseID uint
	baseline CourseInfo
}

// New starts a create-mode wizard at the Information step.
func New() *Wizard {
	return &Wizard{step: StepInformation}
}

// NewEdit starts an edit-mode wizard over an existing course.
func NewEdit(courseID uint, baseline CourseInfo) *Wizard {
	return &Wizard{step: StepInformation, editing: true, courseID: courseID, baseline: baseline}
}

func (w *Wizard) Step() Step     { return w.step }
func (w *Wizard) Editing() bool  { return w.editing }
func (w *Wizard) CourseID() uint { return w.courseID }

// AttachCourse records the id of the course a create-mode submission
// produced, so the later steps know what to operate on.
func (w *Wizard) AttachCourse(courseID uint, info CourseInfo) {
	w.courseID = courseID
	w.baseline = info
	w.editing = true
}

// SubmitInformation validates the form and, on success, advances to the
// Builder step. The returned map holds the fields to send: everything for a
// create, only the diff against the baseline for an edit.
func (w *Wizard) SubmitInformation(info CourseInfo) (map[string]interface{}, error) {
	if w.step != StepInformation {
		return nil, fmt.Errorf("information form submitted at the %s step", w.step)
	}

	if info.Name == "" {
		return nil, errors.New("course name is required")
	}
	if info.Description == "" {
		return nil, errors.New("course description is required")
	}
	if info.Price < 0 {
		return nil, errors.New("course price cannot be negative")
	}
	if info.CategoryID == 0 {
		return nil, errors.New("course category is required")
	}

	changes := map[string]interface{}{}
	if !w.editing {
		changes["name"] = info.Name
		changes["description"] = info.Description
		changes["what_you_will_learn"] = info.WhatYouWillLearn
		changes["price"] = info.Price
		changes["category_id"] = info.CategoryID
		changes["thumbnail"] = info.Thumbnail
	} else {
		if info.Name != w.baseline.Name {
			changes["name"] = info.Name
		}
		if info.Description != w.baseline.Description {
			changes["description"] = info.Description
		}
		if info.WhatYouWillLearn != w.baseline.WhatYouWillLearn {
			changes["what_you_will_learn"] = info.WhatYouWillLearn
		}
		if info.Price != w.baseline.Price {
			changes["price"] = info.Price
		}
		if info.CategoryID != w.baseline.CategoryID {
			changes["category_id"] = info.CategoryID
		}
		if info.Thumbnail != "" && info.Thumbnail != w.baseline.Thumbnail {
			changes["thumbnail"] = info.Thumbnail
		}
		if len(changes) == 0 {
			return nil, ErrNoChanges
		}
	}

	w.baseline = info
	w.step = StepBuilder
	return changes, nil
}

// AdvanceToPublish checks the Builder exit condition. On rejection the step
// stays where it was and the error names the missing precondition.
func (w *Wizard) AdvanceToPublish(sections []SectionSummary) error {
	if w.step != StepBuilder {
		return ErrNotAtBuilder
	}
	if len(sections) == 0 {
		return errors.New("please add at least one section")
	}
	for _, s := range sections {
		if s.Lectures == 0 {
			return fmt.Errorf("section %q needs at least one lecture", s.Name)
		}
	}
	w.step = StepPublish
	return nil
}

// Back steps Builder->Information or Publish->Builder.
func (w *Wizard) Back() error {
	switch w.step {
	case StepBuilder:
		w.step = StepInformation
	case StepPublish:
		w.step = StepBuilder
	default:
		return ErrCannotGoBack
	}
	return nil
}

// Publish resolves the Publish-step submission. It reports whether a status
// update must actually be sent: toggling to the visibility already persisted
// is a no-op and skips the update entirely.
func (w *Wizard) Publish(public, alreadyPublic bool) (needsUpdate bool, err error) {
	if w.step != StepPublish {
		return false, ErrNotAtPublish
	}
	return public != alreadyPublic, nil
}
