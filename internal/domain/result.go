package domain

// Outcome classifies a remote lookup.
type Outcome int

const (
	Found Outcome = iota + 1
	NotFound
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Result[T any] struct {
	Value   T
	Outcome Outcome
}

func FoundResult[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: Found}
}

func NotFoundResult[T any]() Result[T] {
	return Result[T]{Outcome: NotFound}
}

func UnavailableResult[T any]() Result[T] {
	return Result[T]{Outcome: Unavailable}
}

func (r Result[T]) Ok() bool {
	return r.Outcome == Found
}
