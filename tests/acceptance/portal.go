package acceptance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// fakePortal is an in-memory stand-in for the wellness portal backend. It
// issues opaque tokens, honors refresh rotation and revocation, and owns the
// daily materialization of recurring goals, so the client under test talks
// to something that behaves like the real thing.
type fakePortal struct {
	mu        sync.Mutex
	nextToken int
	accounts  map[string]*account
	access    map[string]string // access token -> email
	refresh   map[string]string // refresh token -> email

	nextGoalID int64
	goals      map[int64]domain.Goal

	nextReminderID int64
	reminders      map[int64]domain.Reminder

	server *httptest.Server
}

type account struct {
	user     domain.UserIdentity
	password string
}

func newFakePortal() *fakePortal {
	p := &fakePortal{}
	p.reset()
	p.server = httptest.NewServer(http.HandlerFunc(p.route))
	return p
}

func (p *fakePortal) URL() string { return p.server.URL }

func (p *fakePortal) Close() { p.server.Close() }

func (p *fakePortal) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts = make(map[string]*account)
	p.access = make(map[string]string)
	p.refresh = make(map[string]string)
	p.goals = make(map[int64]domain.Goal)
	p.reminders = make(map[int64]domain.Reminder)
	p.nextGoalID = 1
	p.nextReminderID = 1
}

// RevokeAccessTokens invalidates every outstanding access token while
// leaving refresh tokens alive, simulating access-token expiry.
func (p *fakePortal) RevokeAccessTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.access = make(map[string]string)
}

// RevokeAllTokens invalidates both token kinds, so the next refresh fails
// terminally.
func (p *fakePortal) RevokeAllTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.access = make(map[string]string)
	p.refresh = make(map[string]string)
}

func (p *fakePortal) issueTokens(email string) (string, string) {
	p.nextToken++
	access := fmt.Sprintf("access-%d", p.nextToken)
	refresh := fmt.Sprintf("refresh-%d", p.nextToken)
	p.access[access] = email
	p.refresh[refresh] = email
	return access, refresh
}

func (p *fakePortal) authed(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	email, ok := p.access[token]
	return email, ok
}

func (p *fakePortal) route(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case path == "/auth/register/":
		p.handleRegister(w, r)
	case path == "/auth/login/":
		p.handleLogin(w, r)
	case path == "/auth/token/refresh/":
		p.handleRefresh(w, r)
	case path == "/auth/logout/":
		p.handleLogout(w, r)
	case path == "/wellness/health-tip/":
		json.NewEncoder(w).Encode(dto.HealthTip{ID: 1, Title: "Hydrate", Content: "Drink water through the day.", Category: "nutrition"})
	default:
		email, ok := p.authed(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		p.routeAuthed(w, r, email)
	}
}

func (p *fakePortal) routeAuthed(w http.ResponseWriter, r *http.Request, email string) {
	path := r.URL.Path
	switch {
	case path == "/auth/profile/" && r.Method == http.MethodGet:
		acct := p.accounts[email]
		json.NewEncoder(w).Encode(dto.ProfileResponse{User: &acct.user})
	case path == "/auth/profile/" && r.Method == http.MethodPatch:
		var patch dto.ProfileUpdateRequest
		json.NewDecoder(r.Body).Decode(&patch)
		acct := p.accounts[email]
		if patch.FirstName != nil {
			acct.user.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			acct.user.LastName = *patch.LastName
		}
		json.NewEncoder(w).Encode(dto.ProfileResponse{User: &acct.user})
	case path == "/wellness/goals/" && r.Method == http.MethodGet:
		p.writeGoals(w, nil)
	case path == "/wellness/goals/today/" && r.Method == http.MethodGet:
		p.handleGoalsToday(w)
	case path == "/wellness/goals/" && r.Method == http.MethodPost:
		p.handleGoalCreate(w, r)
	case strings.HasSuffix(path, "/log/") && r.Method == http.MethodPost:
		p.handleGoalLog(w, r)
	case strings.HasPrefix(path, "/wellness/goals/"):
		p.handleGoalItem(w, r)
	case path == "/wellness/reminders/" && r.Method == http.MethodGet:
		p.writeReminders(w)
	case path == "/wellness/reminders/upcoming/" && r.Method == http.MethodGet:
		p.writeReminders(w)
	case path == "/wellness/reminders/" && r.Method == http.MethodPost:
		p.handleReminderCreate(w, r)
	case strings.HasPrefix(path, "/wellness/reminders/"):
		p.handleReminderItem(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	}
}

func (p *fakePortal) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	json.NewDecoder(r.Body).Decode(&req)
	if _, exists := p.accounts[req.Email]; exists {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"email":["user with this email already exists."]}`))
		return
	}

	user := domain.UserIdentity{
		ID:        fmt.Sprintf("u-%d", len(p.accounts)+1),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
	p.accounts[req.Email] = &account{user: user, password: req.Password}
	access, refresh := p.issueTokens(req.Email)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.RegisterResponse{
		Message: "Registration successful",
		User:    &user,
		Tokens:  dto.TokenPair{Access: access, Refresh: refresh},
	})
}

func (p *fakePortal) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	json.NewDecoder(r.Body).Decode(&req)
	acct, ok := p.accounts[req.Email]
	if !ok || acct.password != req.Password {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
		return
	}
	access, refresh := p.issueTokens(req.Email)
	json.NewEncoder(w).Encode(dto.LoginResponse{Access: access, Refresh: refresh, User: &acct.user})
}

func (p *fakePortal) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRefreshRequest
	json.NewDecoder(r.Body).Decode(&req)
	email, ok := p.refresh[req.Refresh]
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
		return
	}
	p.nextToken++
	access := fmt.Sprintf("access-%d", p.nextToken)
	p.access[access] = email
	json.NewEncoder(w).Encode(dto.TokenRefreshResponse{Access: access})
}

func (p *fakePortal) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := p.authed(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		return
	}
	var req dto.LogoutRequest
	json.NewDecoder(r.Body).Decode(&req)
	delete(p.refresh, req.Refresh)
	json.NewEncoder(w).Encode(dto.MessageResponse{Message: "Logged out successfully"})
}

func (p *fakePortal) handleGoalsToday(w http.ResponseWriter) {
	today := domain.Today()

	// Materialize today's instance for each recurring goal that does not
	// already have one for the same metric.
	for _, g := range p.goals {
		if !g.IsRecurring || g.Date == today {
			continue
		}
		exists := false
		for _, other := range p.goals {
			if other.GoalType == g.GoalType && other.Date == today {
				exists = true
				break
			}
		}
		if !exists {
			inst := g.InstanceFor(today)
			inst.ID = p.nextGoalID
			p.nextGoalID++
			p.goals[inst.ID] = inst
		}
	}
	p.writeGoals(w, &today)
}

func (p *fakePortal) writeGoals(w http.ResponseWriter, day *domain.Date) {
	out := make([]domain.Goal, 0, len(p.goals))
	for _, g := range p.goals {
		if day == nil || g.Date == *day {
			out = append(out, g)
		}
	}
	json.NewEncoder(w).Encode(out)
}

func (p *fakePortal) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.GoalCreateRequest
	json.NewDecoder(r.Body).Decode(&req)
	goal := domain.Goal{
		ID:          p.nextGoalID,
		GoalType:    req.GoalType,
		Title:       req.Title,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Date:        req.Date,
		IsRecurring: req.IsRecurring,
	}
	goal.RecomputeCompletion()
	p.goals[goal.ID] = goal
	p.nextGoalID++
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(goal)
}

func (p *fakePortal) handleGoalLog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/wellness/goals/", "/log/")
	goal, ok := p.goals[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Goal not found"}`))
		return
	}
	var req dto.LogProgressRequest
	json.NewDecoder(r.Body).Decode(&req)
	goal.CurrentValue += req.Value
	goal.RecomputeCompletion()
	p.goals[id] = goal
	json.NewEncoder(w).Encode(goal)
}

func (p *fakePortal) handleGoalItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/wellness/goals/", "/")
	goal, ok := p.goals[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Goal not found"}`))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var patch dto.GoalUpdateRequest
		json.NewDecoder(r.Body).Decode(&patch)
		if patch.Title != nil {
			goal.Title = *patch.Title
		}
		if patch.TargetValue != nil {
			goal.TargetValue = *patch.TargetValue
		}
		if patch.Unit != nil {
			goal.Unit = *patch.Unit
		}
		if patch.IsRecurring != nil {
			goal.IsRecurring = *patch.IsRecurring
		}
		goal.RecomputeCompletion()
		p.goals[id] = goal
		json.NewEncoder(w).Encode(goal)
	case http.MethodDelete:
		delete(p.goals, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		json.NewEncoder(w).Encode(goal)
	}
}

func (p *fakePortal) writeReminders(w http.ResponseWriter) {
	out := make([]domain.Reminder, 0, len(p.reminders))
	for _, rem := range p.reminders {
		out = append(out, rem)
	}
	json.NewEncoder(w).Encode(out)
}

func (p *fakePortal) handleReminderCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.ReminderCreateRequest
	json.NewDecoder(r.Body).Decode(&req)
	reminder := domain.Reminder{
		ID:                     p.nextReminderID,
		ReminderType:           req.ReminderType,
		Title:                  req.Title,
		Description:            req.Description,
		ScheduledDate:          req.ScheduledDate,
		ScheduledTime:          req.ScheduledTime,
		Status:                 domain.StatusUpcoming,
		Location:               req.Location,
		Notes:                  req.Notes,
		IsRecurring:            req.IsRecurring,
		RecurrenceIntervalDays: req.RecurrenceIntervalDays,
	}
	p.reminders[reminder.ID] = reminder
	p.nextReminderID++
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reminder)
}

func (p *fakePortal) handleReminderItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/wellness/reminders/", "/")
	reminder, ok := p.reminders[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Reminder not found"}`))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var patch dto.ReminderUpdateRequest
		json.NewDecoder(r.Body).Decode(&patch)
		if patch.Title != nil {
			reminder.Title = *patch.Title
		}
		if patch.ScheduledDate != nil {
			reminder.ScheduledDate = *patch.ScheduledDate
		}
		if patch.ScheduledTime != nil {
			reminder.ScheduledTime = *patch.ScheduledTime
		}
		if patch.Notes != nil {
			reminder.Notes = *patch.Notes
		}
		if patch.Status != nil {
			reminder.Status = *patch.Status
		}
		p.reminders[id] = reminder
		json.NewEncoder(w).Encode(reminder)
	case http.MethodDelete:
		delete(p.reminders, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		json.NewEncoder(w).Encode(reminder)
	}
}

func pathID(path, prefix, suffix string) int64 {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	trimmed = strings.TrimSuffix(trimmed, "/")
	id, _ := strconv.ParseInt(trimmed, 10, 64)
	return id
}
