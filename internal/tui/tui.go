// Package tui is the interactive terminal client of the directory.
//
// Each entity tab owns a tenant scoped loader and a list view state. Loader,
// dialog and notification changes arrive on channels and are turned into
// bubbletea messages, so all rendering happens on the event loop.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/confirm"
	"github.com/orgdesk/directory-api/internal/directory"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/notify"
	"github.com/orgdesk/directory-api/internal/service"
	"go.uber.org/zap"
)

// bannerTimeout is how long a notification stays on screen
const bannerTimeout = 4 * time.Second

// AccountService lists the organizations a user may switch between
type AccountService interface {
	ListOrganizations(ctx context.Context, user *auth.UserContext) ([]domain.OrganizationDTO, error)
}

// Options wires the client to its services
type Options struct {
	User        *auth.UserContext
	Accounts    AccountService
	Contacts    *service.ContactService
	Customers   *service.CustomerService
	Vendors     *service.VendorService
	Contractors *service.ContractorService
	// Organization is selected first when the user belongs to it
	Organization *uuid.UUID
	Logger       *zap.Logger
}

type refreshMsg struct{}

type organizationsMsg struct {
	orgs []domain.OrganizationDTO
	err  error
}

type mutationDoneMsg struct {
	tab       int
	confirmed bool
	err       error
}

type notificationMsg notify.Notification

type clearBannerMsg struct {
	id uuid.UUID
}

// Model is the bubbletea model of the directory client
type Model struct {
	ctx      context.Context
	user     *auth.UserContext
	accounts AccountService
	logger   *zap.Logger

	tabs   []tab
	active int

	orgs        []domain.OrganizationDTO
	orgIndex    int
	orgsLoading bool
	preferred   *uuid.UUID

	table      table.Model
	search     textinput.Model
	searching  bool
	facetIndex int

	dialog        *confirm.Dialog
	mutator       *directory.Mutator
	notifications *notify.Store
	events        chan tea.Msg
	notes         chan notify.Notification
	banner        *notify.Notification

	width  int
	height int
}

// NewModel creates the client. Loaders start in the holding state until the
// organizations of the user are known.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	events := make(chan tea.Msg, 64)
	post := func() {
		// A full buffer already holds refreshes that will render the latest state
		select {
		case events <- refreshMsg{}:
		default:
		}
	}

	dialog := confirm.New()
	dialog.OnChange(func(confirm.State) { post() })

	notes := make(chan notify.Notification, 16)
	notifications := notify.NewStore(notify.DefaultCapacity, logger)
	notifications.Subscribe(notes)

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 200
	search.Prompt = "/ "

	m := Model{
		ctx:      ctx,
		user:     opts.User,
		accounts: opts.Accounts,
		logger:   logger,
		tabs: []tab{
			contactsTab(opts.Contacts, post, logger),
			customersTab(opts.Customers, post, logger),
			vendorsTab(opts.Vendors, post, logger),
			contractorsTab(opts.Contractors, post, logger),
		},
		orgsLoading:   true,
		preferred:     opts.Organization,
		search:        search,
		dialog:        dialog,
		mutator:       directory.NewMutator(dialog, notifications, logger),
		notifications: notifications,
		events:        events,
		notes:         notes,
		width:         120,
		height:        30,
	}
	m.table = table.New(table.WithFocused(true), table.WithHeight(m.tableHeight()))
	m.table.SetStyles(tableStyles())

	m.applyOrganization()
	m.syncTable()
	return m
}

// Close stops every loader
func (m Model) Close() {
	for _, t := range m.tabs {
		t.close()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadOrganizations(),
		waitForEvent(m.events),
		waitForNotification(m.notes),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case refreshMsg:
		m.syncTable()
		return m, waitForEvent(m.events)

	case organizationsMsg:
		m.orgsLoading = false
		if msg.err != nil {
			m.logger.Error("failed to list organizations", zap.Error(msg.err))
			m.notifications.Error("Organizations unavailable", msg.err.Error())
		}
		m.orgs = msg.orgs
		m.orgIndex = m.initialOrganization()
		m.applyOrganization()
		m.syncTable()
		return m, nil

	case mutationDoneMsg:
		if errors.Is(msg.err, confirm.ErrDialogBusy) {
			return m, nil
		}
		if msg.confirmed && msg.err == nil && msg.tab < len(m.tabs) {
			m.tabs[msg.tab].refetch(m.ctx)
		}
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.banner = &n
		return m, tea.Batch(
			waitForNotification(m.notes),
			tea.Tick(bannerTimeout, func(time.Time) tea.Msg { return clearBannerMsg{id: n.ID} }),
		)

	case clearBannerMsg:
		if m.banner != nil && m.banner.ID == msg.id {
			m.banner = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if state := m.dialog.State(); state.Open {
		return m.renderConfirmView(state)
	}
	return m.renderListView()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.dialog.State().Open {
		return m.handleConfirmKeys(msg)
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m Model) loadOrganizations() tea.Cmd {
	return func() tea.Msg {
		if m.accounts == nil || m.user == nil {
			return organizationsMsg{}
		}
		orgs, err := m.accounts.ListOrganizations(m.ctx, m.user)
		return organizationsMsg{orgs: orgs, err: err}
	}
}

// initialOrganization picks the requested organization, then the user's
// default, then the first one
func (m Model) initialOrganization() int {
	for _, want := range []*uuid.UUID{m.preferred, m.user.DefaultOrganizationID()} {
		if want == nil {
			continue
		}
		for i, org := range m.orgs {
			if org.ID == *want {
				return i
			}
		}
	}
	return 0
}

// orgContext is the tenant every loader is scoped to
func (m Model) orgContext() directory.OrgContext {
	if m.orgsLoading {
		return directory.OrgContext{Loading: true}
	}
	if org := m.activeOrganization(); org != nil {
		id := org.ID
		return directory.OrgContext{ActiveOrganizationID: &id}
	}
	return directory.OrgContext{}
}

func (m Model) activeOrganization() *domain.OrganizationDTO {
	if m.orgIndex < 0 || m.orgIndex >= len(m.orgs) {
		return nil
	}
	return &m.orgs[m.orgIndex]
}

func (m Model) role() auth.Role {
	if org := m.activeOrganization(); org != nil {
		return auth.Role(org.Role)
	}
	return ""
}

func (m Model) can(action auth.Action) bool {
	return auth.CanPerform(m.role(), auth.ResourceDirectory, action)
}

func (m *Model) applyOrganization() {
	org := m.orgContext()
	for _, t := range m.tabs {
		t.setOrganization(m.ctx, org)
	}
}

func (m *Model) syncTable() {
	v := m.tabs[m.active].view()
	m.table.SetRows(nil)
	m.table.SetColumns(m.tabs[m.active].columns())
	m.table.SetRows(v.rows)
	if m.table.Cursor() >= len(v.rows) {
		m.table.SetCursor(max(len(v.rows)-1, 0))
	}
}

func (m Model) tableHeight() int {
	return max(m.height-14, 5)
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		return notificationMsg(<-ch)
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}
