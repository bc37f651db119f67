package ingest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-textbook/internal/volume"
)

const componentMultipleChoice = "quizzes.multiple-choice-question"

var errEmptyGenerated = errors.New("generated question holds no items")

// parseQuiz resolves the page's Quiz.Questions entries. A page without
// questions, or with an empty list, has no quiz and yields nil.
func parseQuiz(obj Object, pageTitle string) ([]volume.QuizItem, error) {
	quiz, ok := GetObject(obj, "Quiz")
	if !ok {
		return nil, nil
	}
	questions, ok := GetArray(quiz, "Questions")
	if !ok || len(questions) == 0 {
		return nil, nil
	}

	items := make([]volume.QuizItem, 0, len(questions))
	for index, entry := range questions {
		raw, _ := entry.(map[string]any)
		item, err := parseQuizEntry(raw, index)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseQuizEntry(raw Object, index int) (volume.QuizItem, error) {
	if GetStringOr(raw, "__component", "") == componentMultipleChoice {
		return parseMultipleChoice(raw)
	}

	entity := fmt.Sprintf("quiz question %d", index)
	if id, ok := GetString(raw, "id"); ok {
		entity = fmt.Sprintf("quiz question '%s'", id)
	}
	if text, ok := GetString(raw, "GeneratedQuestion"); ok {
		return parseGenerated(text, entity)
	}
	return volume.QuizItem{}, invalid(entity, "__component", "neither multiple-choice nor generated")
}

func parseMultipleChoice(raw Object) (volume.QuizItem, error) {
	id, ok := GetString(raw, "id")
	if !ok {
		return volume.QuizItem{}, missing("quiz question", "id")
	}
	entity := fmt.Sprintf("quiz question '%s'", id)

	question, ok := GetString(raw, "Question")
	if !ok {
		return volume.QuizItem{}, missing(entity, "Question")
	}
	rawAnswers, ok := GetArray(raw, "Answers")
	if !ok || len(rawAnswers) == 0 {
		return volume.QuizItem{}, missing(entity, "Answers")
	}

	answers := make([]volume.QuizAnswer, 0, len(rawAnswers))
	for _, entry := range rawAnswers {
		answerObj, _ := entry.(map[string]any)
		answerID, ok := GetString(answerObj, "id")
		if !ok {
			return volume.QuizItem{}, missing("answer in "+entity, "id")
		}
		answerEntity := fmt.Sprintf("answer '%s' in %s", answerID, entity)
		text, ok := GetString(answerObj, "Text")
		if !ok {
			return volume.QuizItem{}, missing(answerEntity, "Text")
		}
		correct, ok := GetBool(answerObj, "IsCorrect")
		if !ok {
			return volume.QuizItem{}, missing(answerEntity, "IsCorrect")
		}
		answers = append(answers, volume.QuizAnswer{Answer: text, Correct: correct})
	}

	return volume.QuizItem{Question: question, Answers: answers}, nil
}

func parseGenerated(text, entity string) (volume.QuizItem, error) {
	var items []volume.QuizItem
	if err := yaml.Unmarshal([]byte(text), &items); err != nil {
		return volume.QuizItem{}, &FormatError{Entity: entity, Cause: err}
	}
	if len(items) == 0 {
		return volume.QuizItem{}, &FormatError{Entity: entity, Cause: errEmptyGenerated}
	}
	return items[0], nil
}
