package console

import (
	"context"

	"github.com/floodrelief/rescue-console/config"
	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

// DialogKind identifies which admin action a dialog edits.
type DialogKind string

const (
	DialogReview DialogKind = "review"
	DialogAssign DialogKind = "assign"
	DialogCancel DialogKind = "cancel"
)

// DialogState is the lifecycle of the single dialog instance.
type DialogState string

const (
	DialogClosed     DialogState = "closed"
	DialogOpen       DialogState = "open"
	DialogSubmitting DialogState = "submitting"
	DialogFailed     DialogState = "failed"
)

// Form is the operator input of the open dialog. Which fields matter
// depends on the dialog kind.
type Form struct {
	TargetStatus  rescue.Status
	Priority      rescue.Priority
	RequiredTeams int
	Note          string
	TeamIDs       []string
	Reason        string
}

// DialogController manages the form state of exactly one in-flight action
// against exactly one record. Opening a new dialog discards any unsaved
// prior state without confirmation. A result arriving after the dialog was
// closed or reopened is discarded: no state update, no list refresh.
type DialogController struct {
	api       API
	engine    workflow.Engine
	list      *ListController
	log       Logger
	teamLimit int

	state      DialogState
	kind       DialogKind
	record     rescue.RequestRecord
	form       Form
	teams      []rescue.Team
	err        error
	generation uint64
}

// NewDialogController constructs a closed dialog controller bound to the
// given list controller for post-mutation refreshes.
func NewDialogController(backend API, list *ListController, cfg config.Config, logger Logger) *DialogController {
	if logger == nil {
		logger = NewLogger("action-dialog")
	}
	teamLimit := cfg.TeamListLimit
	if teamLimit <= 0 {
		teamLimit = 100
	}
	return &DialogController{
		api:       backend,
		list:      list,
		log:       logger,
		teamLimit: teamLimit,
		state:     DialogClosed,
	}
}

func (c *DialogController) State() DialogState { return c.state }

func (c *DialogController) Kind() DialogKind { return c.kind }

func (c *DialogController) Record() rescue.RequestRecord { return c.record }

func (c *DialogController) Form() Form { return c.form }

func (c *DialogController) Teams() []rescue.Team { return c.teams }

// Err returns the error of the last failed submission, or the last locally
// rejected input. Cleared on open and on success.
func (c *DialogController) Err() error { return c.err }

// SetForm replaces the operator input. No-op unless a dialog is open.
func (c *DialogController) SetForm(f Form) {
	if c.state == DialogOpen || c.state == DialogFailed {
		c.form = f
	}
}

// OpenReview opens the review dialog pre-filled with the engine's suggested
// next status and the record's current priority and team count.
func (c *DialogController) OpenReview(record rescue.RequestRecord) error {
	if !c.allowed(record.Status, workflow.ActionReview) {
		return &workflow.TransitionError{From: record.Status, Action: workflow.ActionReview}
	}
	next, _ := c.engine.DefaultNextStatus(record.Status)
	required := record.RequiredTeams
	if required < 1 {
		required = 1
	}
	c.open(DialogReview, record)
	c.form = Form{
		TargetStatus:  next,
		Priority:      record.Priority,
		RequiredTeams: required,
	}
	return nil
}

// OpenAssign opens the assign dialog with an empty selection, pulling the
// active-team directory for the picker. A directory fetch failure leaves
// the dialog closed.
func (c *DialogController) OpenAssign(ctx context.Context, record rescue.RequestRecord) error {
	if !c.allowed(record.Status, workflow.ActionAssign) {
		return &workflow.TransitionError{From: record.Status, Action: workflow.ActionAssign}
	}
	teams, err := c.api.ActiveTeams(ctx, c.teamLimit)
	if err != nil {
		c.log.Printf("team directory fetch failed: %v", err)
		return err
	}
	c.open(DialogAssign, record)
	c.teams = teams
	return nil
}

// OpenCancel opens the cancel dialog with an empty reason. Available from
// every non-terminal status.
func (c *DialogController) OpenCancel(record rescue.RequestRecord) error {
	if !c.allowed(record.Status, workflow.ActionCancel) {
		return &workflow.TransitionError{From: record.Status, Action: workflow.ActionCancel}
	}
	c.open(DialogCancel, record)
	return nil
}

// Close discards the dialog. An in-flight submission is allowed to resolve
// but its result will be dropped.
func (c *DialogController) Close() {
	c.generation++
	c.state = DialogClosed
	c.form = Form{}
	c.teams = nil
	c.err = nil
}

// Submit validates the form locally, then issues the mutation belonging to
// the dialog kind. Local rejection means no network call. On success the
// dialog closes and the list refreshes exactly once; on remote failure the
// dialog stays open and editable with the error surfaced.
func (c *DialogController) Submit(ctx context.Context) (rescue.RequestRecord, error) {
	if c.state == DialogSubmitting {
		return rescue.RequestRecord{}, ErrSubmitInFlight
	}
	if c.state != DialogOpen && c.state != DialogFailed {
		return rescue.RequestRecord{}, ErrNoDialog
	}

	call, err := c.buildCall()
	if err != nil {
		c.err = err
		return rescue.RequestRecord{}, err
	}

	gen := c.generation
	c.state = DialogSubmitting
	rec, err := call(ctx)
	if c.generation != gen {
		// Dialog was closed or reopened while the call was in flight.
		return rescue.RequestRecord{}, nil
	}
	if err != nil {
		c.state = DialogFailed
		c.err = err
		return rescue.RequestRecord{}, err
	}
	c.finish()
	if err := c.list.Refresh(ctx); err != nil {
		c.log.Printf("post-submit refresh failed: %v", err)
	}
	return rec, nil
}

// Complete collapses the remaining forward chain of an active request into
// sequential review calls, one per step, each awaited before the next. A
// mid-chain failure leaves the record in its intermediate status; earlier
// steps are already committed server-side and are not rolled back.
func (c *DialogController) Complete(ctx context.Context) (rescue.RequestRecord, error) {
	if c.state == DialogSubmitting {
		return rescue.RequestRecord{}, ErrSubmitInFlight
	}
	if c.state != DialogOpen && c.state != DialogFailed {
		return rescue.RequestRecord{}, ErrNoDialog
	}
	switch c.record.Status {
	case rescue.StatusAssigned, rescue.StatusAccepted, rescue.StatusInProgress:
	default:
		return rescue.RequestRecord{}, &workflow.TransitionError{
			From: c.record.Status, To: rescue.StatusDone, Action: workflow.ActionReview,
		}
	}

	note := c.form.Note
	if note == "" {
		note = "completed"
	}

	gen := c.generation
	c.state = DialogSubmitting
	current := c.record
	steps := 0
	for current.Status != rescue.StatusDone {
		next, ok := c.engine.DefaultNextStatus(current.Status)
		if !ok {
			break
		}
		payload, err := c.stepPayload(current, next, note)
		var updated rescue.RequestRecord
		if err == nil {
			updated, err = c.api.Review(ctx, current.ID, payload)
		}
		if c.generation != gen {
			return rescue.RequestRecord{}, nil
		}
		if err != nil {
			chainErr := &ChainError{Completed: steps, Status: current.Status, Err: err}
			c.state = DialogFailed
			c.err = chainErr
			if err := c.list.Refresh(ctx); err != nil {
				c.log.Printf("post-chain refresh failed: %v", err)
			}
			return rescue.RequestRecord{}, chainErr
		}
		current = updated
		steps++
	}
	c.finish()
	if err := c.list.Refresh(ctx); err != nil {
		c.log.Printf("post-chain refresh failed: %v", err)
	}
	return current, nil
}

func (c *DialogController) stepPayload(current rescue.RequestRecord, next rescue.Status, note string) (workflow.ReviewPayload, error) {
	in := workflow.ReviewInput{Note: note}
	switch next {
	case rescue.StatusInProgress:
		in.Priority = c.priorityOr(current.Priority)
	case rescue.StatusDone:
		if current.Status != rescue.StatusInProgress {
			in.Priority = c.priorityOr(current.Priority)
		}
	}
	return c.engine.BuildReviewPayload(current.Status, next, in)
}

func (c *DialogController) priorityOr(fallback rescue.Priority) rescue.Priority {
	if c.form.Priority != "" {
		return c.form.Priority
	}
	return fallback
}

func (c *DialogController) buildCall() (func(context.Context) (rescue.RequestRecord, error), error) {
	id := c.record.ID
	switch c.kind {
	case DialogReview:
		payload, err := c.engine.BuildReviewPayload(c.record.Status, c.form.TargetStatus, workflow.ReviewInput{
			Priority:      c.form.Priority,
			Note:          c.form.Note,
			RequiredTeams: c.form.RequiredTeams,
		})
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (rescue.RequestRecord, error) {
			return c.api.Review(ctx, id, payload)
		}, nil
	case DialogAssign:
		payload, err := c.engine.BuildAssignPayload(c.record.Status, c.form.TeamIDs)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (rescue.RequestRecord, error) {
			return c.api.Assign(ctx, id, payload)
		}, nil
	case DialogCancel:
		payload, err := c.engine.BuildCancelPayload(c.record.Status, c.form.Reason)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (rescue.RequestRecord, error) {
			return c.api.Cancel(ctx, id, payload)
		}, nil
	default:
		return nil, ErrNoDialog
	}
}

func (c *DialogController) allowed(status rescue.Status, action workflow.Action) bool {
	for _, a := range c.engine.AllowedActions(status) {
		if a == action {
			return true
		}
	}
	return false
}

func (c *DialogController) open(kind DialogKind, record rescue.RequestRecord) {
	c.generation++
	c.state = DialogOpen
	c.kind = kind
	c.record = record
	c.form = Form{}
	c.teams = nil
	c.err = nil
}

func (c *DialogController) finish() {
	c.generation++
	c.state = DialogClosed
	c.form = Form{}
	c.teams = nil
	c.err = nil
}
