package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// DeadlineLayout formats the deadline in the reminder body.
const DeadlineLayout = "01/02/2006 03:04 PM MST"

var bodyTemplate = template.Must(template.New("reminder").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Task Reminder</h2>
    <p>This is a reminder about your overdue task:</p>
    <div style="margin: 20px; padding: 20px; background-color: #f8f9fa; border-radius: 5px;">
        <h3>{{.Title}}</h3>
        <p>The deadline for this task was: <strong>{{.Deadline}}</strong></p>
    </div>
    <p>Please update the task status or contact your manager if you need assistance.</p>
    <p>Best regards,<br>Task Management System</p>
</body>
</html>
`))

// Subject returns the reminder subject line.
func Subject(taskTitle string) string {
	return "Overdue Task Reminder: " + taskTitle
}

// RenderBody renders the HTML body. The title is escaped.
func RenderBody(r Reminder) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Title    string
		Deadline string
	}{
		Title:    r.TaskTitle,
		Deadline: r.Deadline.UTC().Format(DeadlineLayout),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render reminder body: %w", err)
	}
	return buf.String(), nil
}
