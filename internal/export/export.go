// Package export renders a user's tasks as an XML document for download.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/phase2/todo-api/internal/models"
)

// TasksXML builds an XML document listing the given tasks
func TasksXML(tasks []*models.Task) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("tasks")
	root.CreateAttr("count", strconv.Itoa(len(tasks)))

	for _, task := range tasks {
		el := root.CreateElement("task")
		el.CreateAttr("id", strconv.FormatInt(task.ID, 10))
		el.CreateElement("title").SetText(task.Title)
		if task.Description != nil {
			el.CreateElement("description").SetText(*task.Description)
		}
		el.CreateElement("completed").SetText(strconv.FormatBool(task.Completed))
		el.CreateElement("created_at").SetText(task.CreatedAt.Format(time.RFC3339))
		el.CreateElement("updated_at").SetText(task.UpdatedAt.Format(time.RFC3339))
	}

	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize tasks: %w", err)
	}
	return body, nil
}
