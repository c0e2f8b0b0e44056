package console_test

import (
	"context"

	"github.com/floodrelief/rescue-console/api"
	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

// stubAPI is a hand-rolled backend double for controller behavior that the
// fake HTTP server cannot express, such as reentrant calls and results that
// arrive after the dialog is gone.
type stubAPI struct {
	page      api.Page
	listErr   error
	listCalls int

	record      rescue.RequestRecord
	reviewErr   error
	reviewCalls int
	onReview    func()
}

func (s *stubAPI) ListRequests(context.Context, api.Query) (api.Page, error) {
	s.listCalls++
	if s.listErr != nil {
		return api.Page{}, s.listErr
	}
	return s.page, nil
}

func (s *stubAPI) GetRequest(context.Context, string) (rescue.RequestRecord, error) {
	return s.record, nil
}

func (s *stubAPI) Review(context.Context, string, workflow.ReviewPayload) (rescue.RequestRecord, error) {
	s.reviewCalls++
	if s.onReview != nil {
		s.onReview()
	}
	if s.reviewErr != nil {
		return rescue.RequestRecord{}, s.reviewErr
	}
	return s.record, nil
}

func (s *stubAPI) Cancel(context.Context, string, workflow.CancelPayload) (rescue.RequestRecord, error) {
	return s.record, nil
}

func (s *stubAPI) Assign(context.Context, string, workflow.AssignPayload) (rescue.RequestRecord, error) {
	return s.record, nil
}

func (s *stubAPI) ActiveTeams(context.Context, int) ([]rescue.Team, error) {
	return nil, nil
}
