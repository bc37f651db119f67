package ingest

import (
	"fmt"

	"github.com/goliatone/go-textbook/internal/volume"
)

const (
	assignmentSummary = "summary"
	assignmentQuiz    = "quiz"
)

func parsePage(index int, obj Object) (volume.Page, error) {
	title, ok := GetString(obj, "Title")
	if !ok {
		return volume.Page{}, missing(fmt.Sprintf("page %d", index), "Title")
	}
	entity := pageEntity(title)

	slug, ok := GetString(obj, "Slug")
	if !ok {
		return volume.Page{}, missing(entity, "Slug")
	}

	hasSummary, ok := GetBool(obj, "HasSummary")
	if !ok {
		return volume.Page{}, missing(entity, "HasSummary")
	}
	assignments := []string{}
	if hasSummary {
		assignments = append(assignments, assignmentSummary)
	}

	parent, err := parseParent(obj, title)
	if err != nil {
		return volume.Page{}, err
	}

	quiz, err := parseQuiz(obj, title)
	if err != nil {
		return volume.Page{}, fmt.Errorf("parse quiz for page '%s': %w", title, err)
	}
	if quiz != nil {
		assignments = append(assignments, assignmentQuiz)
	}

	chunks, err := parseChunks(obj, title)
	if err != nil {
		return volume.Page{}, fmt.Errorf("failed to parse chunk: %w", err)
	}

	order, ok := GetInt(obj, "Order")
	if !ok {
		return volume.Page{}, missing(entity, "Order")
	}

	return volume.Page{
		Title:       title,
		Slug:        slug,
		Parent:      parent,
		Order:       order,
		Assignments: assignments,
		Quiz:        quiz,
		Chunks:      chunks,
	}, nil
}

func parseParent(obj Object, pageTitle string) (*volume.Parent, error) {
	chapter, ok := GetObject(obj, "Chapter")
	if !ok {
		return nil, nil
	}
	entity := fmt.Sprintf("chapter for page '%s'", pageTitle)
	title, ok := GetString(chapter, "Title")
	if !ok {
		return nil, missing(entity, "Title")
	}
	slug, ok := GetString(chapter, "Slug")
	if !ok {
		return nil, missing(entity, "Slug")
	}
	return &volume.Parent{Title: title, Slug: slug}, nil
}

func pageEntity(title string) string {
	return fmt.Sprintf("page '%s'", title)
}
