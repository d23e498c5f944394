package domain

// AnswerTag marks where the reference answer starts inside a problem body.
const AnswerTag = "ANSWER:"

// NoNext is the sentinel for "no next problem" in a sequence.
const NoNext = -1

// ProblemDescriptor is the parsed form of one problem file
type ProblemDescriptor struct {
	Merit       int    // points for a correct answer
	Effort      int    // points for attempting
	MaxAttempts int    // 0 or negative means unlimited
	Tag         string // optional label from the header line
	Body        string // annotated display text
	Answer      string // reference answer, empty if none
	SourceName  string // base file name
	Extension   string
}

// Unlimited reports whether the problem has no attempt limit.
func (p *ProblemDescriptor) Unlimited() bool {
	return p.MaxAttempts <= 0
}

// BroadcastMode controls how a batch of problems is handed out to students
type BroadcastMode string

const (
	// ModeUnicast sends a single problem to everyone
	ModeUnicast BroadcastMode = "unicast"
	// ModeMulticastOr gives each student one problem chosen at random
	ModeMulticastOr BroadcastMode = "multicast_or"
	// ModeMulticastAnd gives every student all problems at once
	ModeMulticastAnd BroadcastMode = "multicast_and"
	// ModeMulticastSeq gives problems one at a time along a difficulty ladder
	ModeMulticastSeq BroadcastMode = "multicast_seq"
)

// Divider returns the separator placed between problem bodies on the wire.
func (m BroadcastMode) Divider() string {
	switch m {
	case ModeMulticastOr:
		return "<GEM_OR>"
	case ModeMulticastAnd:
		return "<GEM_AND>"
	case ModeMulticastSeq:
		return "<GEM_NEXT>"
	default:
		return ""
	}
}

// IsValid checks if the mode is one the server understands
func (m BroadcastMode) IsValid() bool {
	switch m {
	case ModeUnicast, ModeMulticastOr, ModeMulticastAnd, ModeMulticastSeq:
		return true
	}
	return false
}

// Sequential reports whether problems are chained by difficulty.
func (m BroadcastMode) Sequential() bool {
	return m == ModeMulticastSeq
}

// Sequence is a batch of problems in send order along with the ladder links.
// NextIfCorrect and NextIfIncorrect hold indexes into Problems or NoNext.
type Sequence struct {
	Mode            BroadcastMode
	Problems        []*ProblemDescriptor
	NextIfCorrect   []int
	NextIfIncorrect []int
}

// Len returns the number of problems in the sequence
func (s *Sequence) Len() int {
	return len(s.Problems)
}
