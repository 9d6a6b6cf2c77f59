package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"casebook/internal/jurisdiction/handler/mocks"
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law"
	"casebook/internal/records"
	"casebook/internal/submission"
	dErrors "casebook/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, target, r))
	return w
}

func (s *HandlerSuite) TestLawsRendersInEncounterOrder() {
	laws := domain.NewLaws()
	for _, guid := range []string{"0xb", "0xa"} {
		l := domain.NewLaw(domain.Action{GUID: guid})
		_, err := l.AddRule(domain.Rule{ID: "r-" + guid, ActionGUID: guid})
		s.Require().NoError(err)
		laws.Set(l)
	}
	result := &law.Result{Laws: laws, Outcomes: []law.Outcome{
		{RuleID: "r-0xb", ActionGUID: "0xb", Status: law.StatusIncluded},
		{RuleID: "r-0xa", ActionGUID: "0xa", Status: law.StatusIncluded},
		{RuleID: "r-x", ActionGUID: "0xx", Status: law.StatusSkipped, Reason: law.SkipReasonActionNotFound},
	}}
	s.service.EXPECT().
		GetLawsByJurisdiction(gomock.Any(), "0xjur", records.Page{First: 10, Skip: 20}).
		Return(result, nil)

	w := s.do(http.MethodGet, "/jurisdictions/0xjur/laws?first=10&skip=20", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Laws []struct {
			Action domain.Action `json:"action"`
		} `json:"laws"`
		Skipped []SkippedResponse `json:"skipped"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Len(body.Laws, 2)
	s.Equal("0xb", body.Laws[0].Action.GUID)
	s.Equal("0xa", body.Laws[1].Action.GUID)
	s.Equal([]SkippedResponse{{RuleID: "r-x", ActionGUID: "0xx", Reason: "action_not_found"}}, body.Skipped)
}

func (s *HandlerSuite) TestLawsRejectsBadPage() {
	w := s.do(http.MethodGet, "/jurisdictions/0xjur/laws?first=-1", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestLawsUpstreamUnavailable() {
	s.service.EXPECT().GetLawsByJurisdiction(gomock.Any(), "0xjur", gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "record source unavailable"))

	w := s.do(http.MethodGet, "/jurisdictions/0xjur/laws", "")
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerSuite) TestCases() {
	s.service.EXPECT().GetCases(gomock.Any(), "0xjur", records.Page{}).
		Return([]domain.Case{{ID: "c1", Rules: []domain.RuleRef{}, Roles: []domain.Role{}, Posts: []domain.Post{}}}, nil)

	w := s.do(http.MethodGet, "/jurisdictions/0xjur/cases", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"id":"c1"`)
}

func (s *HandlerSuite) TestRuleNotFound() {
	s.service.EXPECT().GetRuleByID(gomock.Any(), "42").
		Return(domain.Rule{}, dErrors.New(dErrors.CodeNotFound, "rule 42 not found"))

	w := s.do(http.MethodGet, "/rules/42", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestSubmitRejectsInsufficientWitnesses() {
	s.service.EXPECT().SubmitCase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, form submission.FormInputs) (submission.Payload, error) {
			s.Equal([]string{"0xw1"}, form.WitnessAccounts)
			return submission.Payload{}, dErrors.Wrap(
				&submission.InsufficientWitnessesError{Required: 2, Provided: 1},
				dErrors.CodeValidation, "case submission rejected")
		})

	w := s.do(http.MethodPost, "/cases/submissions",
		`{"actionGuid":"0xa","ruleId":"1","subjectAccount":"0xs","affectedAccount":"0xf","witnessAccounts":["0xw1"]}`)
	s.Require().Equal(http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal("validation_error", body["error"])
	s.Contains(body["error_description"], "required 2")
}

func (s *HandlerSuite) TestSubmitAccepted() {
	s.service.EXPECT().SubmitCase(gomock.Any(), gomock.Any()).
		Return(submission.Payload{Name: submission.DefaultCaseName}, nil)

	w := s.do(http.MethodPost, "/cases/submissions", `{"actionGuid":"0xa","ruleId":"1"}`)
	s.Equal(http.StatusAccepted, w.Code)
}

func (s *HandlerSuite) TestPreviewRejectsMalformedBody() {
	w := s.do(http.MethodPost, "/cases/submissions/preview", `{"actionGuid":`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestPreviewDoesNotPublish() {
	s.service.EXPECT().BuildCaseSubmission(gomock.Any(), gomock.Any()).
		Return(submission.Payload{Name: "x"}, nil)

	w := s.do(http.MethodPost, "/cases/submissions/preview", `{"actionGuid":"0xa"}`)
	s.Equal(http.StatusOK, w.Code)
}
