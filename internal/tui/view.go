package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateDetail:
		content = m.viewDetail()
	case stateAddHabit, stateSetReminder:
		content = m.form.View()
	default:
		content = m.habitList.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		docStyle.Render(content),
		m.viewMessages(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("habitual"),
		labelStyle.Render(" "+m.cfg.Session.Email),
	)
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.selected.Name))
	b.WriteString("\n\n")
	b.WriteString(m.selected.Description)
	b.WriteString("\n\n")
	if m.current == nil {
		b.WriteString(labelStyle.Render("No reminder set. Press 'r' to add one."))
		return b.String()
	}
	b.WriteString(labelStyle.Render("Reminder: "))
	b.WriteString(m.current.Text)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Next:     "))
	b.WriteString(m.current.TriggerTime.In(m.cfg.Scheduler.Location()).Format("Mon Jan 2 15:04 MST"))
	return b.String()
}

func (m Model) viewMessages() string {
	var lines []string
	if m.warning != "" {
		lines = append(lines, warningStyle.Render("⚠ "+m.warning))
	}
	if m.status != "" {
		lines = append(lines, successStyle.Render("✓ "+m.status))
	}
	if m.errMsg != "" {
		lines = append(lines, dangerStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}
