package scoring

import "time"

// ViolationType identifies a category of proctoring violation.
type ViolationType string

const (
	ViolationNoFace        ViolationType = "no_face"
	ViolationMultipleFaces ViolationType = "multiple_faces"
	ViolationLookingAway   ViolationType = "looking_away"
	ViolationTabSwitch     ViolationType = "tab_switch"
	ViolationPhoneDetected ViolationType = "phone_detected"
	ViolationPrintScreen   ViolationType = "print_screen"
	ViolationCopyPaste     ViolationType = "copy_paste"
	ViolationMouseExit     ViolationType = "mouse_exit"
)

// ViolationTypes lists every known violation category.
func ViolationTypes() []ViolationType {
	return []ViolationType{
		ViolationNoFace,
		ViolationMultipleFaces,
		ViolationLookingAway,
		ViolationTabSwitch,
		ViolationPhoneDetected,
		ViolationPrintScreen,
		ViolationCopyPaste,
		ViolationMouseExit,
	}
}

// Severity returns the reporting severity associated with a violation type.
func (v ViolationType) Severity() string {
	switch v {
	case ViolationNoFace, ViolationMultipleFaces, ViolationPhoneDetected:
		return "high"
	case ViolationLookingAway, ViolationTabSwitch:
		return "medium"
	default:
		return "low"
	}
}

// ViolationEvent is a single proctoring observation. Events are immutable
// once logged.
type ViolationEvent struct {
	Type      ViolationType `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}

// ViolationSummary maps violation types to occurrence counts.
type ViolationSummary map[ViolationType]int

// Count returns the occurrences recorded for the given type.
func (s ViolationSummary) Count(t ViolationType) int {
	return s[t]
}

// Total returns the number of events across all types.
func (s ViolationSummary) Total() int {
	total := 0
	for _, count := range s {
		total += count
	}
	return total
}

// Tally aggregates an ordered event list into per-type counts. All known
// types are present in the result, so an empty input yields all-zero counts.
func Tally(events []ViolationEvent) ViolationSummary {
	summary := make(ViolationSummary, len(ViolationTypes()))
	for _, t := range ViolationTypes() {
		summary[t] = 0
	}
	for _, event := range events {
		summary[event.Type]++
	}
	return summary
}
