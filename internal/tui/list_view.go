package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/directory"
	"github.com/orgdesk/directory-api/internal/listview"
	"github.com/orgdesk/directory-api/internal/notify"
)

// pageSizes are the sizes cycled with + and -
var pageSizes = []int{10, 25, 50, 100}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ORGANIZATION DIRECTORY"))
	s.WriteString("  ")
	s.WriteString(m.renderOrganization())
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	if m.searching {
		s.WriteString(m.search.View())
	} else {
		s.WriteString(mutedStyle.Render(m.renderQuery()))
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderBody())
	s.WriteString("\n")

	if m.banner != nil {
		s.WriteString(renderBanner(*m.banner))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())
	return s.String()
}

func (m Model) renderOrganization() string {
	switch org := m.activeOrganization(); {
	case m.orgsLoading:
		return mutedStyle.Render("loading organizations...")
	case org == nil:
		return mutedStyle.Render("no organization")
	default:
		return fmt.Sprintf("%s %s", org.Name, mutedStyle.Render("("+org.Role+")"))
	}
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			rendered = append(rendered, tabActiveStyle.Render(t.title()))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(t.title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderQuery summarises search, filters and sort of the active tab
func (m Model) renderQuery() string {
	state := m.tabs[m.active].listState()
	parts := []string{}
	if state.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", state.Search))
	}
	for _, facet := range m.tabs[m.active].facetNames() {
		if values := state.Filters[facet]; len(values) > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s", facet, strings.Join(values, "|")))
		}
	}
	parts = append(parts, fmt.Sprintf("sort %s %s", state.SortBy, state.SortOrder))
	if facet := m.currentFacet(); facet != "" {
		parts = append(parts, "facet: "+facet)
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderBody() string {
	v := m.tabs[m.active].view()
	switch {
	case v.loading:
		return mutedStyle.Render("Loading...")
	case v.err != "":
		return errorStyle.Render("Error: "+v.err) + mutedStyle.Render("  (r to retry)")
	case !v.hasTenant:
		return mutedStyle.Render("No active organization. Press o to pick one.")
	case v.total == 0:
		return mutedStyle.Render("No " + m.tabs[m.active].label() + " records")
	}

	pager := fmt.Sprintf("Page %d of %d · %d records", v.page, max(v.totalPages, 1), v.total)
	return m.table.View() + "\n" + mutedStyle.Render(pager)
}

func renderBanner(n notify.Notification) string {
	text := n.Title
	if n.Message != "" {
		text += ": " + n.Message
	}
	if n.Type == notify.TypeError {
		return errorStyle.Render("✗ " + text)
	}
	return successStyle.Render("✓ " + text)
}

func (m Model) renderListHelp() string {
	help := []string{
		"tab: switch list",
		"/: search",
		"s/S: sort",
		"f/v/c: filter",
		"n/p: page",
		"o: organization",
		"r: reload",
	}
	if m.can(auth.ActionEdit) {
		help = append(help, "a: archive", "d: duplicate", "x: remove")
	}
	if m.can(auth.ActionDelete) {
		help = append(help, "D: delete")
	}
	help = append(help, "q: quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.tabs[m.active]
	state := t.listState()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.banner = nil
	case "tab":
		m.active = (m.active + 1) % len(m.tabs)
		m.facetIndex = 0
		m.table.SetCursor(0)
	case "shift+tab":
		m.active = (m.active + len(m.tabs) - 1) % len(m.tabs)
		m.facetIndex = 0
		m.table.SetCursor(0)
	case "/":
		m.searching = true
		m.search.SetValue(state.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "s":
		fields := t.sortFields()
		next := (slices.Index(fields, state.SortBy) + 1) % len(fields)
		state.SetSort(fields[next], state.SortOrder)
	case "S":
		state.ToggleSort(state.SortBy)
	case "f":
		if names := t.facetNames(); len(names) > 0 {
			m.facetIndex = (m.facetIndex + 1) % len(names)
		}
	case "v":
		m.cycleFacetValue()
	case "c":
		state.ClearFilters()
		state.SetSearch("")
	case "n", "right":
		v := t.view()
		if v.page < v.totalPages {
			state.SetPage(v.page + 1)
		}
	case "p", "left":
		state.SetPage(state.Page - 1)
	case "+":
		state.SetPageSize(nextPageSize(state.PageSize, 1))
	case "-":
		state.SetPageSize(nextPageSize(state.PageSize, -1))
	case "o":
		if len(m.orgs) > 1 {
			m.orgIndex = (m.orgIndex + 1) % len(m.orgs)
			m.applyOrganization()
		}
	case "r":
		t.refetch(m.ctx)
	case "a":
		return m, m.startMutation(auth.ActionEdit, directory.ArchiveMutation, t.archive)
	case "d":
		return m, m.startMutation(auth.ActionEdit, directory.DuplicateMutation, t.duplicate)
	case "x":
		return m, m.startMutation(auth.ActionEdit, directory.RemoveMutation, t.remove)
	case "D":
		return m, m.startMutation(auth.ActionDelete, directory.DeleteMutation, t.delete)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.syncTable()
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.tabs[m.active].listState().SetSearch(strings.TrimSpace(m.search.Value()))
		m.searching = false
		m.search.Blur()
		m.table.SetCursor(0)
		m.syncTable()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) currentFacet() string {
	names := m.tabs[m.active].facetNames()
	if len(names) == 0 {
		return ""
	}
	return names[m.facetIndex%len(names)]
}

// cycleFacetValue steps the current facet through its values, then back to no filter
func (m Model) cycleFacetValue() {
	facet := m.currentFacet()
	if facet == "" {
		return
	}
	t := m.tabs[m.active]
	values := t.facetValues(facet)
	state := t.listState()

	current := state.Filters[facet]
	next := 0
	if len(current) > 0 {
		next = slices.Index(values, current[0]) + 1
	}
	if next >= len(values) {
		state.SetFilter(facet, nil)
		return
	}
	state.SetFilter(facet, []string{values[next]})
}

func nextPageSize(current, step int) int {
	i := slices.Index(pageSizes, current)
	if i < 0 {
		return listview.DefaultPageSize
	}
	i = min(max(i+step, 0), len(pageSizes)-1)
	return pageSizes[i]
}

type mutationFactory func(label, name string, run func(ctx context.Context) error) directory.Mutation

// startMutation confirms and runs an action on the selected row. The list is
// refetched once the mutation succeeded.
func (m Model) startMutation(action auth.Action, build mutationFactory, run func(ctx context.Context, organizationID, id uuid.UUID) error) tea.Cmd {
	if !m.can(action) {
		m.notifications.Error("Not allowed", "Your role cannot "+string(action)+" records")
		return nil
	}
	org := m.activeOrganization()
	v := m.tabs[m.active].view()
	cursor := m.table.Cursor()
	if org == nil || cursor < 0 || cursor >= len(v.records) {
		return nil
	}

	tabIndex := m.active
	organizationID := org.ID
	target := v.records[cursor]
	mutation := build(m.tabs[m.active].label(), target.name, func(ctx context.Context) error {
		return run(ctx, organizationID, target.id)
	})

	return func() tea.Msg {
		confirmed, err := m.mutator.Execute(m.ctx, mutation)
		return mutationDoneMsg{tab: tabIndex, confirmed: confirmed, err: err}
	}
}
