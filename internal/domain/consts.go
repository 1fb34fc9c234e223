package domain

// ISO 8601 weekday constants and mappings
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// WeekdayNames maps ISO 8601 weekday numbers to their English names
var WeekdayNames = map[int]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Slack reaction names used by the workflow.
const (
	ReactionOne     = "one"
	ReactionTwo     = "two"
	ReactionThree   = "three"
	ReactionFour    = "four"
	ReactionConfirm = "white_check_mark"
	ReactionDecline = "x"
)

// SelectableDays are the days offered in the weekly prompt, in prompt order.
var SelectableDays = []int{Tuesday, Wednesday, Thursday, Friday}

// SelectorReactions pairs 1:1 with SelectableDays.
var SelectorReactions = []string{ReactionOne, ReactionTwo, ReactionThree, ReactionFour}

// ReviewReactions are attached to every review request, confirm first.
var ReviewReactions = []string{ReactionConfirm, ReactionDecline}
