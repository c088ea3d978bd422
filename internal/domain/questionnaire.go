package domain

// MinRecoveryAnswers is how many answered questions a questionnaire needs
// before it can be used to recover a password.
const MinRecoveryAnswers = 3

// Question is an entry of the security question catalog
type Question struct {
	ID   int    `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Answer is a user's hashed answer to one catalog question
type Answer struct {
	QuestionID int
	Question   string
	AnswerHash string
}

// Questionnaire holds a user's security answers
type Questionnaire struct {
	OwnerID string
	Answers []Answer
}

// SetAnswer stores the answer for q, replacing any previous answer to the same question
func (q *Questionnaire) SetAnswer(question Question, answerHash string) {
	for i := range q.Answers {
		if q.Answers[i].QuestionID == question.ID {
			q.Answers[i].Question = question.Text
			q.Answers[i].AnswerHash = answerHash
			return
		}
	}
	q.Answers = append(q.Answers, Answer{
		QuestionID: question.ID,
		Question:   question.Text,
		AnswerHash: answerHash,
	})
}

// AnswerFor returns the stored answer for a question id
func (q *Questionnaire) AnswerFor(questionID int) (Answer, bool) {
	for _, a := range q.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

// IsComplete reports whether enough questions are answered for recovery
func (q *Questionnaire) IsComplete() bool {
	return len(q.Answers) >= MinRecoveryAnswers
}

// QuestionIDs lists the answered question ids in storage order
func (q *Questionnaire) QuestionIDs() []int {
	ids := make([]int, 0, len(q.Answers))
	for _, a := range q.Answers {
		ids = append(ids, a.QuestionID)
	}
	return ids
}

// Clone returns a deep copy
func (q Questionnaire) Clone() Questionnaire {
	q.Answers = append([]Answer(nil), q.Answers...)
	return q
}
