package itinerary

import "github.com/alexanderramin/itinera/internal/domain"

// Command is a single edit expressed as a value, so callers can queue, log
// and replay edits without knowing which function implements them.
type Command interface {
	Name() string
	Apply(it domain.Itinerary) domain.Itinerary
}

type AddDayCmd struct{}

func (AddDayCmd) Name() string                               { return "add_day" }
func (AddDayCmd) Apply(it domain.Itinerary) domain.Itinerary { return AddDay(it) }

type DeleteDayCmd struct {
	DayID string
}

func (DeleteDayCmd) Name() string { return "delete_day" }
func (c DeleteDayCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return DeleteDay(it, c.DayID)
}

type RenameDayCmd struct {
	DayID string
	Title string
}

func (RenameDayCmd) Name() string { return "rename_day" }
func (c RenameDayCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return RenameDay(it, c.DayID, c.Title)
}

type AddActivityCmd struct {
	DayID string
	Text  string
}

func (AddActivityCmd) Name() string { return "add_activity" }
func (c AddActivityCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return AddActivity(it, c.DayID, c.Text)
}

type EditActivityCmd struct {
	DayID      string
	ActivityID string
	Patch      ActivityPatch
}

func (EditActivityCmd) Name() string { return "edit_activity" }
func (c EditActivityCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return EditActivity(it, c.DayID, c.ActivityID, c.Patch)
}

type DeleteActivityCmd struct {
	DayID      string
	ActivityID string
}

func (DeleteActivityCmd) Name() string { return "delete_activity" }
func (c DeleteActivityCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return DeleteActivity(it, c.DayID, c.ActivityID)
}

type ReorderDaysCmd struct {
	From, To int
}

func (ReorderDaysCmd) Name() string { return "reorder_days" }
func (c ReorderDaysCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return ReorderDays(it, c.From, c.To)
}

type ReorderActivitiesCmd struct {
	DayID    string
	From, To int
}

func (ReorderActivitiesCmd) Name() string { return "reorder_activities" }
func (c ReorderActivitiesCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return ReorderActivities(it, c.DayID, c.From, c.To)
}

type MoveActivityCmd struct {
	FromDayID string
	FromIndex int
	ToDayID   string
	ToIndex   int
}

func (MoveActivityCmd) Name() string { return "move_activity" }
func (c MoveActivityCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return MoveActivity(it, c.FromDayID, c.FromIndex, c.ToDayID, c.ToIndex)
}

type PromoteCmd struct {
	Item    domain.PoolItem
	ToDayID string
	ToIndex int
}

func (PromoteCmd) Name() string { return "promote_from_pool" }
func (c PromoteCmd) Apply(it domain.Itinerary) domain.Itinerary {
	return PromoteFromPool(it, c.Item, c.ToDayID, c.ToIndex)
}

// ApplyAll applies the commands in order.
func ApplyAll(it domain.Itinerary, cmds ...Command) domain.Itinerary {
	for _, c := range cmds {
		it = c.Apply(it)
	}
	return it
}
