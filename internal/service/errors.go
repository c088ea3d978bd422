package service

import "errors"

var (
	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownQuestion is returned for a question id missing from the catalog
	ErrUnknownQuestion = errors.New("unknown security question")
	// ErrQuestionnaireIncomplete is returned when recovery is started without enough answers
	ErrQuestionnaireIncomplete = errors.New("security questionnaire incomplete")
	// ErrSessionNotFound is returned for unknown or expired recovery sessions
	ErrSessionNotFound = errors.New("recovery session not found")
	// ErrQuestionNotInSession is returned for answers to questions that were not asked
	ErrQuestionNotInSession = errors.New("question not part of this recovery session")
	// ErrWrongAnswer is returned for an incorrect security answer; the session stays open
	ErrWrongAnswer = errors.New("wrong answer")
	// ErrDuplicateAnswer is returned when a question already answered correctly is answered again
	ErrDuplicateAnswer = errors.New("question already answered")
	// ErrNotEligible is returned when a password reset is attempted before enough correct answers
	ErrNotEligible = errors.New("recovery session not eligible for reset")
)
