package session

// Screen is one of the six top-level views.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDescriptors
	ScreenGradeUpload
	ScreenFeedback
	ScreenSubscription
	ScreenAppInfo
)

var screenNames = map[Screen]string{
	ScreenHome:         "Home",
	ScreenDescriptors:  "Band Descriptors",
	ScreenGradeUpload:  "Grade Essay",
	ScreenFeedback:     "Feedback",
	ScreenSubscription: "Go Premium",
	ScreenAppInfo:      "App Setup Info",
}

// String returns the screen title.
func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "Unknown"
}

// canNavigate encodes the router rules: every screen may return Home, Home
// may open any screen, and Feedback is only reachable once a result exists.
// GradeUpload's own exits (Feedback, Subscription) happen through the
// grading flow, not through Navigate.
func canNavigate(from, to Screen, hasResult bool) bool {
	if _, ok := screenNames[to]; !ok {
		return false
	}
	if to == ScreenHome {
		return true
	}
	if from != ScreenHome {
		return false
	}
	if to == ScreenFeedback {
		return hasResult
	}
	return true
}
