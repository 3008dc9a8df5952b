package session

import (
	"errors"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/roster"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// The day drill-down is a two-level view: a grouped list of the day's
// activities, then a single activity's detail. The state is a tagged
// variant; transitions are pure functions so the controller only swaps
// values.

// ModalState is one of Closed, ListView or DetailView.
type ModalState interface {
	modalState()
}

// Closed is the resting state; all drill-down data is gone.
type Closed struct{}

// ListView shows a day's activities grouped by company.
type ListView struct {
	Date       string                  `json:"date"`
	OnCall     roster.Assignment       `json:"onCall"`
	Groups     []activity.CompanyGroup `json:"groups"`
	Activities []activity.Activity     `json:"activities"`
}

// DetailView shows one selected activity and its annotations. It keeps the
// list it came from so going back restores it exactly.
type DetailView struct {
	Date        string              `json:"date"`
	Activity    activity.Activity   `json:"activity"`
	Annotations []source.Annotation `json:"annotations"`
	list        ListView
}

func (Closed) modalState()     {}
func (ListView) modalState()   {}
func (DetailView) modalState() {}

var (
	// ErrNoSelection marks a select/back transition from the wrong level.
	ErrNoSelection = errors.New("no activity selected at this level")
	// ErrBadIndex marks a selection outside the day's activity list.
	ErrBadIndex = errors.New("activity index out of range")
)

// openDay enters level 1 over the given day activities.
func openDay(date string, onCall roster.Assignment, activities []activity.Activity) ListView {
	return ListView{
		Date:       date,
		OnCall:     onCall,
		Groups:     activity.GroupByCompany(activities),
		Activities: activities,
	}
}

// selectActivity moves from the list to one activity's detail.
func selectActivity(list ListView, index int, annotations []source.Annotation) (DetailView, error) {
	if index < 0 || index >= len(list.Activities) {
		return DetailView{}, ErrBadIndex
	}
	return DetailView{
		Date:        list.Date,
		Activity:    list.Activities[index],
		Annotations: annotations,
		list:        list,
	}, nil
}

// back restores the exact level-1 list the detail was opened from.
func back(detail DetailView) ListView {
	return detail.list
}
