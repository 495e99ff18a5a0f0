package dashboard

// ViewMode is which pane a narrow terminal shows.
type ViewMode int

const (
	ListView ViewMode = iota
	DetailView
)

func (v ViewMode) String() string {
	switch v {
	case ListView:
		return "list"
	case DetailView:
		return "detail"
	default:
		return "unknown"
	}
}

type viewEvent int

const (
	evSelect viewEvent = iota
	evBack
	evCategory
)

// next is the whole view-mode machine. There is no terminal state.
func (v ViewMode) next(ev viewEvent) ViewMode {
	switch ev {
	case evSelect:
		return DetailView
	case evBack, evCategory:
		return ListView
	default:
		return v
	}
}
