package assign

// Op is the delta the user wants applied to a container.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

func (o Op) flip() Op {
	if o == OpAdd {
		return OpRemove
	}
	return OpAdd
}

// ContainerRef identifies a candidate target. ParentID is empty for flat kinds.
type ContainerRef struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
}

// Entry is one touched container inside a selection.
type Entry struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Op       Op     `json:"op"`
	IsNew    bool   `json:"is_new"`
}

func (e Entry) Ref() ContainerRef {
	return ContainerRef{ID: e.ID, ParentID: e.ParentID}
}

func (e Entry) matches(ref ContainerRef) bool {
	return e.ID == ref.ID && e.ParentID == ref.ParentID
}

// State is the selection held by one open dialog. Reducers never mutate a
// State in place; they return a fresh one.
type State struct {
	Entries       []Entry `json:"entries"`
	IsMultiSelect bool    `json:"is_multi_select"`

	// containers linked to some but not all subjects when the dialog opened
	indeterminate map[ContainerRef]struct{}
}

// NewState builds a state from entries, deriving the multi-select flag the
// same way the initial build does.
func NewState(entries []Entry) State {
	s := State{Entries: append([]Entry(nil), entries...)}
	s.IsMultiSelect = len(s.Entries) > 1
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := State{
		Entries:       append([]Entry(nil), s.Entries...),
		IsMultiSelect: s.IsMultiSelect,
	}
	if len(s.indeterminate) > 0 {
		c.indeterminate = make(map[ContainerRef]struct{}, len(s.indeterminate))
		for k := range s.indeterminate {
			c.indeterminate[k] = struct{}{}
		}
	}
	return c
}

// Find returns the index of the entry for ref, or -1.
func (s State) Find(ref ContainerRef) int {
	for i, e := range s.Entries {
		if e.matches(ref) {
			return i
		}
	}
	return -1
}

// Indeterminate lists containers that were partially linked at open time.
func (s State) Indeterminate() []ContainerRef {
	out := make([]ContainerRef, 0, len(s.indeterminate))
	for ref := range s.indeterminate {
		out = append(out, ref)
	}
	return out
}

// MarkIndeterminate returns a copy of s that renders ref as partially linked
// until an entry is created for it.
func (s State) MarkIndeterminate(ref ContainerRef) State {
	c := s.Clone()
	if c.indeterminate == nil {
		c.indeterminate = make(map[ContainerRef]struct{})
	}
	c.indeterminate[ref] = struct{}{}
	return c
}

// StatusKind is the tag of Status.
type StatusKind string

const (
	StatusUnselected    StatusKind = "unselected"
	StatusIndeterminate StatusKind = "indeterminate"
	StatusAdd           StatusKind = "add"
	StatusRemove        StatusKind = "remove"
)

// Status is the tri-state (plus removal) rendering of one container.
// IsNew is only meaningful for StatusAdd.
type Status struct {
	Kind  StatusKind `json:"kind"`
	IsNew bool       `json:"is_new,omitempty"`
}

// Status reports how ref should be rendered. An explicit entry always wins
// over the indeterminate marker from the initial build.
func (s State) Status(ref ContainerRef) Status {
	if i := s.Find(ref); i >= 0 {
		e := s.Entries[i]
		switch e.Op {
		case OpRemove:
			return Status{Kind: StatusRemove}
		case OpAdd:
			return Status{Kind: StatusAdd, IsNew: e.IsNew}
		}
	}
	if _, ok := s.indeterminate[ref]; ok {
		return Status{Kind: StatusIndeterminate}
	}
	return Status{Kind: StatusUnselected}
}

// Added returns entries scheduled for linking, in order.
func (s State) Added() []Entry {
	return s.filter(OpAdd)
}

// Removed returns entries scheduled for unlinking, in order.
func (s State) Removed() []Entry {
	return s.filter(OpRemove)
}

func (s State) filter(op Op) []Entry {
	out := make([]Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}
