package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"casebook/internal/records"
	dErrors "casebook/pkg/domain-errors"
	"casebook/pkg/platform/circuit"
	"casebook/pkg/platform/sentinel"
)

type SubgraphClientSuite struct {
	suite.Suite
	ctx context.Context
}

func TestSubgraphClientSuite(t *testing.T) {
	suite.Run(t, new(SubgraphClientSuite))
}

func (s *SubgraphClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func serve(t *testing.T, fn func(req gqlRequest) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := fn(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *SubgraphClientSuite) TestFindRulesSendsFiltersAndPage() {
	var got gqlRequest
	srv := serve(s.T(), func(req gqlRequest) (int, string) {
		got = req
		return http.StatusOK, `{"data":{"jurisdictionRules":[
			{"id":"0xjur-1","jurisdiction":"0xjur","rule":{"about":"0xa","negation":false},"confirmation":{"ruleset":"m","witness":"1"}}
		]}}`
	})
	client := New(srv.URL)

	rules, err := client.FindRules(s.ctx, records.RuleQuery{
		Jurisdiction: records.Ptr("0xJUR"),
		ActionGUID:   records.Ptr("0xa"),
		Page:         records.Page{First: 10, Skip: 20},
	})
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal("0xa", rules[0].Rule.About)

	s.Equal(float64(10), got.Variables["first"])
	s.Equal(float64(20), got.Variables["skip"])
	where := got.Variables["where"].(map[string]any)
	s.Equal("0xjur", where["jurisdiction"], "addresses are matched lower-case")
	s.Equal(map[string]any{"about": "0xa"}, where["rule_"])
}

func (s *SubgraphClientSuite) TestFindRulesDefaultsPageSize() {
	var got gqlRequest
	srv := serve(s.T(), func(req gqlRequest) (int, string) {
		got = req
		return http.StatusOK, `{"data":{"jurisdictionRules":[]}}`
	})
	_, err := New(srv.URL).FindRules(s.ctx, records.RuleQuery{})
	s.Require().NoError(err)
	s.Equal(float64(records.DefaultPageSize), got.Variables["first"])
}

func (s *SubgraphClientSuite) TestFindActionNotFound() {
	srv := serve(s.T(), func(gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"action":null}}`
	})
	_, err := New(srv.URL).FindAction(s.ctx, "0xmissing")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *SubgraphClientSuite) TestFindCasesKeepsRawShape() {
	srv := serve(s.T(), func(gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"caseEntities":[{"id":"c1","createdDate":"1667808000","jurisdiction":"0xjur","stage":1}]}}`
	})
	cases, err := New(srv.URL).FindCases(s.ctx, records.CaseQuery{})
	s.Require().NoError(err)
	s.Require().Len(cases, 1)
	s.Equal("c1", cases[0]["id"])
}

func (s *SubgraphClientSuite) TestServerErrorIsTransient() {
	srv := serve(s.T(), func(gqlRequest) (int, string) {
		return http.StatusBadGateway, `bad gateway`
	})
	_, err := New(srv.URL).FindCases(s.ctx, records.CaseQuery{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.True(errors.Is(err, sentinel.ErrUnavailable))
}

func (s *SubgraphClientSuite) TestGraphQLErrorsAreNotTransient() {
	srv := serve(s.T(), func(gqlRequest) (int, string) {
		return http.StatusOK, `{"errors":[{"message":"Type JurisdictionRule_filter has no field foo"}]}`
	})
	_, err := New(srv.URL).FindRules(s.ctx, records.RuleQuery{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(err.Error(), "no field foo")
}

func TestBreakerShortCircuitsAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithBreaker(circuit.New("subgraph", circuit.WithFailureThreshold(2))))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.FindCases(ctx, records.CaseQuery{})
		require.Error(t, err)
	}
	_, err := client.FindCases(ctx, records.CaseQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrCircuitOpen))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the upstream")
}
