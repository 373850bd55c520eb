package genquiz

import "errors"

var (
	// ErrGeneration is returned when the generative service call fails
	ErrGeneration = errors.New("generation failed")

	// ErrParse is returned when the service answered with something that is not a question list
	ErrParse = errors.New("failed to parse quiz data")

	// ErrNoQuestions is returned when a generation produced zero usable questions
	ErrNoQuestions = errors.New("no questions returned")

	// ErrInvalidConfig is returned for a setup that fails validation
	ErrInvalidConfig = errors.New("invalid quiz config")

	// ErrInvalidTransition is returned when an operation is not allowed in the current status
	ErrInvalidTransition = errors.New("invalid quiz status transition")

	// ErrFeedback is returned when no performance remark could be produced
	ErrFeedback = errors.New("feedback unavailable")
)

// GenerationErrorMessage is what the user sees when a quiz could not be created
const GenerationErrorMessage = "Failed to generate quiz. Please try a different topic or try again."
