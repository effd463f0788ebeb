package game

import "fmt"

// Title returns the short headline shown for a rejection.
func (r *Rejection) Title() string {
	switch r.Reason {
	case ReasonAlreadyUsed:
		return "Word used already"
	case ReasonNotSubsetOfRoot:
		return "Word not possible"
	case ReasonNotARealWord:
		return "Word not recognized"
	case ReasonEqualsRootWord:
		return "The same as given word"
	case ReasonTooShort:
		return "Word is too short"
	}
	return "Word rejected"
}

// Message returns the explanation shown under Title.
func (r *Rejection) Message() string {
	switch r.Reason {
	case ReasonAlreadyUsed:
		return fmt.Sprintf("You already found '%s'. Be more original", r.Word)
	case ReasonNotSubsetOfRoot:
		return fmt.Sprintf("You can't spell '%s' from '%s'", r.Word, r.Root)
	case ReasonNotARealWord:
		return fmt.Sprintf("'%s' isn't a word. You can't just make them up, you know", r.Word)
	case ReasonEqualsRootWord:
		return fmt.Sprintf("You can't use '%s' as your answer", r.Root)
	case ReasonTooShort:
		return fmt.Sprintf("You have to use words with %d or more letters", MinWordLength)
	}
	return string(r.Reason)
}
