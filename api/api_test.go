// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/epochstake/api/types"
	"github.com/vechain/epochstake/api/utils"
	"github.com/vechain/epochstake/balances"
	"github.com/vechain/epochstake/engine"
	"github.com/vechain/epochstake/epoch"
	"github.com/vechain/epochstake/log"
	"github.com/vechain/epochstake/metrics"
	"github.com/vechain/epochstake/params"
	estypes "github.com/vechain/epochstake/types"
)

const (
	t0   = uint64(1714670000)
	user = "0x0000000000000000000000000000000000003333"
)

var (
	utilityToken    = estypes.BytesToAddress([]byte{0x02, 0x22})
	reputationToken = estypes.BytesToAddress([]byte{0x03, 0x33})
)

type testServer struct {
	t        *testing.T
	url      string
	logLevel *slog.LevelVar
	apiLogs  *atomic.Bool
}

func newTestServer(t *testing.T, enableMetrics bool) *testServer {
	policy := params.DefaultPolicy()
	policy.UtilityToken = utilityToken
	sp, err := params.NewStaking(policy)
	require.NoError(t, err)
	gp, err := params.NewGovernance(utilityToken, reputationToken, params.Overwrite)
	require.NoError(t, err)

	table := balances.NewTable()
	table.Set(estypes.MustParseAddress(user), reputationToken, big.NewInt(99))

	e, err := engine.New(engine.Options{
		Clock:      epoch.NewManualClock(t0),
		Staking:    sp,
		Governance: gp,
		Balances:   table,
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)

	ts := &testServer{t: t, logLevel: new(slog.LevelVar), apiLogs: &atomic.Bool{}}
	ts.logLevel.Set(log.LevelInfo)
	handler, closeSubs := New(e, Options{
		AllowedOrigins:  "*",
		EnableMetrics:   enableMetrics,
		EnableReqLogger: ts.apiLogs,
		LogLevel:        ts.logLevel,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Cleanup(closeSubs)
	ts.url = srv.URL
	return ts
}

func (ts *testServer) do(method, path, body string) (int, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.url+path, reader)
	require.NoError(ts.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return res.StatusCode, data
}

func (ts *testServer) ok(method, path, body string, out any) {
	status, data := ts.do(method, path, body)
	require.Equal(ts.t, http.StatusOK, status, string(data))
	if out != nil {
		require.NoError(ts.t, json.Unmarshal(data, out))
	}
}

func (ts *testServer) fail(method, path, body string, wantStatus int, wantCode string) {
	status, data := ts.do(method, path, body)
	require.Equal(ts.t, wantStatus, status, string(data))
	var e utils.ErrorBody
	require.NoError(ts.t, json.Unmarshal(data, &e))
	assert.Equal(ts.t, wantCode, e.Code)
}

func assertAmount(t *testing.T, want string, got *math.HexOrDecimal256) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want, (*big.Int)(got).String())
}

func TestStakeScenarioOverHTTP(t *testing.T) {
	ts := newTestServer(t, false)

	var clock types.Clock
	ts.ok(http.MethodGet, "/clock", "", &clock)
	assert.Equal(t, t0, clock.Now)
	assert.Equal(t, uint64(1715212800), clock.NextEpochStart)

	var staked types.Staked
	ts.ok(http.MethodPost, "/stakes/"+user, `{"amount":"1000","duration":2419200}`, &staked)
	assert.Equal(t, "created", staked.Kind)
	assertAmount(t, "400", staked.Reward)
	assert.Equal(t, uint64(1715212800), staked.Stake.StartTime)

	ts.ok(http.MethodPost, "/admin/clock", `{"advance":86400}`, nil)
	ts.ok(http.MethodPost, "/stakes/"+user, `{"amount":"0x64","duration":31449600}`, &staked)
	assert.Equal(t, "topped-up", staked.Kind)
	assertAmount(t, "440", staked.Stake.Reward)

	ts.ok(http.MethodPost, "/admin/staking", `{"rewardRate":"0.01"}`, nil)
	ts.ok(http.MethodPost, "/admin/clock", `{"set":1715274800}`, nil)
	ts.ok(http.MethodPost, "/stakes/"+user, `{"amount":"100","duration":31449600}`, &staked)
	assertAmount(t, "443", staked.Stake.Reward)

	ts.ok(http.MethodPost, "/admin/clock", `{"set":1715879600}`, nil)
	ts.fail(http.MethodPost, "/stakes/"+user+"/unstake", "", http.StatusBadRequest, "lock-active")

	ts.ok(http.MethodPost, "/admin/clock", `{"set":1717694000}`, nil)
	ts.fail(http.MethodPost, "/stakes/"+user, `{"amount":"100","duration":31449600}`, http.StatusBadRequest, "stake-ended")

	var unstaked types.Unstaked
	ts.ok(http.MethodPost, "/stakes/"+user+"/unstake", "", &unstaked)
	assertAmount(t, "1643", unstaked.Payout)

	var stake types.Stake
	ts.ok(http.MethodGet, "/stakes/"+user, "", &stake)
	assertAmount(t, "0", stake.LockAmount)
	assert.Zero(t, stake.EndTime)

	ts.fail(http.MethodPost, "/stakes/"+user+"/unstake", "", http.StatusNotFound, "not-found")

	var totals types.Totals
	ts.ok(http.MethodGet, "/stakes", "", &totals)
	assert.Equal(t, 0, totals.Count)

	var events []types.Event
	ts.ok(http.MethodGet, "/events?limit=2", "", &events)
	require.Len(t, events, 2)
	assert.Equal(t, "config-changed", events[0].Name)
	assert.Equal(t, "unstaked", events[1].Name)
}

func TestGovernanceOverHTTP(t *testing.T) {
	ts := newTestServer(t, false)

	ts.ok(http.MethodPost, "/stakes/"+user, `{"amount":"1000","duration":604800}`, nil)
	ts.fail(http.MethodPost, "/governors/"+user+"/claim", "", http.StatusNotFound, "not-found")

	var granted types.Granted
	ts.ok(http.MethodPost, "/governors/"+user+"/reward", "", &granted)
	assert.Equal(t, "registered", granted.Kind)
	ts.fail(http.MethodPost, "/governors/"+user+"/reward", "", http.StatusBadRequest, "epoch-not-elapsed")

	ts.ok(http.MethodPost, "/admin/clock", `{"advance":604800}`, nil)
	ts.ok(http.MethodPost, "/governors/"+user+"/reward", "", &granted)
	assertAmount(t, "1046", granted.Reward)

	var claimed types.Claimed
	ts.ok(http.MethodPost, "/governors/"+user+"/claim", "", &claimed)
	assertAmount(t, "1046", claimed.Amount)

	var governor types.Governor
	ts.ok(http.MethodGet, "/governors/"+user, "", &governor)
	assertAmount(t, "0", governor.Reward)
	assert.Equal(t, t0+epoch.Length, governor.LastClaimTime)

	ts.ok(http.MethodPost, "/admin/governance", `{"pause":true}`, nil)
	ts.fail(http.MethodPost, "/governors/"+user+"/reward", "", http.StatusBadRequest, "paused")
}

func TestAdminOverHTTP(t *testing.T) {
	ts := newTestServer(t, false)

	var settings types.Settings
	ts.ok(http.MethodGet, "/params", "", &settings)
	assert.Equal(t, "0.1", settings.Staking.RewardRate)
	assert.Equal(t, uint64(52), settings.Staking.MaxLockEpochs)
	assert.Equal(t, "overwrite", settings.Governance.Accumulation)
	assert.Equal(t, epoch.Length, settings.EpochLength)

	ts.fail(http.MethodPost, "/admin/staking", `{"rewardRate":"0.5"}`, http.StatusBadRequest, "invalid-config")
	ts.fail(http.MethodPost, "/admin/staking", `{"rewardRate":"abc"}`, http.StatusBadRequest, "bad-request")
	ts.fail(http.MethodPost, "/admin/staking", `{"unknown":true}`, http.StatusBadRequest, "bad-request")
	ts.fail(http.MethodPost, "/admin/clock", `{}`, http.StatusBadRequest, "bad-request")
	ts.fail(http.MethodPost, "/admin/clock", `{"set":1}`, http.StatusBadRequest, "invalid-time")
	ts.fail(http.MethodPost, "/admin/governance", `{"reputationToken":"0x0000000000000000000000000000000000000000"}`, http.StatusBadRequest, "invalid-config")

	ts.ok(http.MethodPost, "/admin/staking", `{"pause":true,"withdraw":true}`, &settings)
	assert.True(t, settings.Staking.EmergencyPause)
	assert.True(t, settings.Staking.EmergencyWithdraw)
	ts.fail(http.MethodPost, "/stakes/"+user, `{"amount":"1","duration":604800}`, http.StatusBadRequest, "paused")

	ts.fail(http.MethodGet, "/stakes/0x1234", "", http.StatusBadRequest, "bad-request")
	ts.fail(http.MethodPost, "/stakes/"+user, `{"duration":604800}`, http.StatusBadRequest, "bad-request")

	ts.ok(http.MethodPost, "/admin/loglevel", `{"level":"debug"}`, nil)
	assert.Equal(t, log.LevelDebug, ts.logLevel.Level())

	ts.ok(http.MethodPost, "/admin/apilogs", `{"enabled":true}`, nil)
	assert.True(t, ts.apiLogs.Load())

	status, _ := ts.do(http.MethodGet, "/doc/epochstake.yaml", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	ts := newTestServer(t, true)

	ts.ok(http.MethodGet, "/clock", "", nil)
	ts.ok(http.MethodGet, "/stakes/"+user, "", nil)
	ts.fail(http.MethodPost, "/stakes/"+user+"/unstake", "", http.StatusNotFound, "not-found")

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, m := range families["epochstake_api_request_count"].GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		counts[labels["name"]+" "+labels["code"]] += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["clock_get 200"])
	assert.Equal(t, float64(1), counts["stakes_get_stake 200"])
	assert.Equal(t, float64(1), counts["stakes_post_unstake 404"])
}

func TestSubscribeEventsOverWebsocket(t *testing.T) {
	ts := newTestServer(t, false)
	ts.ok(http.MethodPost, "/stakes/"+user, `{"amount":"1000","duration":2419200}`, nil)

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.url, "http://"), Path: "/subscriptions/events"}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// the retained stake is replayed
	var ev types.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint64(1), ev.Seq)
	assert.Equal(t, "staked", ev.Name)

	ts.ok(http.MethodPost, "/admin/clock", `{"advance":86400}`, nil)
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint64(2), ev.Seq)
	assert.Equal(t, "config-changed", ev.Name)

	// since skips what the client has seen
	u.RawQuery = "since=1"
	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn2.Close()
	require.NoError(t, conn2.ReadJSON(&ev))
	assert.Equal(t, uint64(2), ev.Seq)

	u.RawQuery = "since=x"
	_, resp, err = websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
