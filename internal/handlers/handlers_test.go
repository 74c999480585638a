package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"connectibles/internal/jobs"
	"connectibles/internal/middleware"
	"connectibles/internal/mocks"
	"connectibles/internal/models"
	"connectibles/internal/otp"
	"connectibles/internal/repositories"
	"connectibles/internal/services"
	"connectibles/internal/telemetry"
)

const (
	me    int64 = 1
	other int64 = 2
)

// newRouter signs every request in as userID; zero leaves it anonymous.
func newRouter(userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	return r
}

func do(r *gin.Engine, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestErrorBodyCarriesCode(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewMessageHandler(services.NewMessageService(users, new(mocks.MessageRepositoryMock), mocks.NewBroadcasterMock(), new(mocks.NotifierMock)), nil)
	router := newRouter(me)
	router.POST("/messages/:user_id", handler.SendMessage)

	rec := do(router, http.MethodPost, "/messages/1", `{"body":"hi"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "SELF_MESSAGE", resp["code"])
	assert.Equal(t, "SELF_MESSAGE: You cannot message yourself", resp["error"])
}

func TestInvalidPathID(t *testing.T) {
	handler := NewConnectionHandler(services.NewConnectionService(new(mocks.UserRepositoryMock), new(mocks.ConnectionRepositoryMock), new(mocks.NotifierMock)))
	router := newRouter(me)
	router.POST("/connections/:user_id/wave", handler.SendWave)

	rec := do(router, http.MethodPost, "/connections/abc/wave", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])
}

func TestInfrastructureErrorsAreInternal(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetByID", mock.Anything, me).Return(models.User{}, assert.AnError).Once()
	handler := NewUserHandler(services.NewUserService(users, new(mocks.AvatarsMock)), services.NewMatchService(users), nil, "")
	router := newRouter(me)
	router.GET("/me", handler.GetMe)

	rec := do(router, http.MethodGet, "/me", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "INTERNAL", resp["code"])
	assert.NotContains(t, resp["error"], assert.AnError.Error())
}

func TestGetUserAnonymousIsNull(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(services.NewUserService(users, new(mocks.AvatarsMock)), services.NewMatchService(users), nil, "")
	router := newRouter(0)
	router.GET("/users/:user_id", handler.GetUser)

	rec := do(router, http.MethodGet, "/users/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Contains(t, resp, "user")
	assert.Nil(t, resp["user"])
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAdminWipeRequiresKey(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("DeleteAll", mock.Anything).Return(int64(3), nil).Once()
	handler := NewUserHandler(services.NewUserService(users, new(mocks.AvatarsMock)), services.NewMatchService(users), nil, "s3cret")
	router := newRouter(0)
	router.DELETE("/admin/users", handler.AdminWipeUsers)

	rec := do(router, http.MethodDelete, "/admin/users", "", "X-Admin-Key", "wrong")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodDelete, "/admin/users", "", "X-Admin-Key", "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["deleted"])
	users.AssertExpectations(t)
}

func TestVerifyOTPReturnsToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	codes := new(mocks.OTPStoreMock)
	tokens := new(mocks.TokenIssuerMock)
	codes.On("Check", mock.Anything, "sam@campus.edu", "424242").Return(nil).Once()
	codes.On("Delete", mock.Anything, "sam@campus.edu").Return(nil).Once()
	users.On("GetByEmail", mock.Anything, "sam@campus.edu").Return(models.User{ID: me, Email: "sam@campus.edu"}, nil).Once()
	users.On("TouchLastActive", mock.Anything, me).Return(nil).Once()
	tokens.On("Issue", me).Return("jwt", nil).Once()
	handler := NewAuthHandler(services.NewAuthService(users, codes, new(mocks.EmailSenderMock), tokens, "campus.edu"), nil)
	router := newRouter(0)
	router.POST("/auth/verify", handler.VerifyOTP)

	rec := do(router, http.MethodPost, "/auth/verify", `{"email":"sam@campus.edu","code":"424242"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "jwt", resp["token"])
	assert.Equal(t, false, resp["newUser"])
}

func TestVerifyOTPExpired(t *testing.T) {
	codes := new(mocks.OTPStoreMock)
	codes.On("Check", mock.Anything, "sam@campus.edu", "1").Return(otp.ErrNotFound).Once()
	handler := NewAuthHandler(services.NewAuthService(new(mocks.UserRepositoryMock), codes, new(mocks.EmailSenderMock), new(mocks.TokenIssuerMock), "campus.edu"), nil)
	router := newRouter(0)
	router.POST("/auth/verify", handler.VerifyOTP)

	rec := do(router, http.MethodPost, "/auth/verify", `{"email":"sam@campus.edu","code":"1"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "OTP_EXPIRED", decode(t, rec)["code"])
}

func TestReportUserWithoutBody(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	reports := new(mocks.ReportRepositoryMock)
	notifier := new(mocks.NotifierMock)
	users.On("GetByID", mock.Anything, other).Return(models.User{ID: other}, nil).Once()
	reports.On("FileReport", mock.Anything, me, other, (*string)(nil), mock.Anything).
		Return(repositories.FiledReport{Report: models.UserReport{ID: 1}, Count: 3}, nil).Once()
	handler := NewReportHandler(services.NewReportService(users, reports, notifier), nil)
	router := newRouter(me)
	router.POST("/users/:user_id/report", handler.ReportUser)

	rec := do(router, http.MethodPost, "/users/2/report", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, float64(3), resp["count"])
	assert.Equal(t, "none", resp["action"])
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportUserDuplicateKeepsErrorCode(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	reports := new(mocks.ReportRepositoryMock)
	users.On("GetByID", mock.Anything, other).Return(models.User{ID: other}, nil).Once()
	reports.On("FileReport", mock.Anything, me, other, (*string)(nil), mock.Anything).
		Return(nil, repositories.ErrAlreadyReported).Once()
	handler := NewReportHandler(services.NewReportService(users, reports, new(mocks.NotifierMock)), nil)
	router := newRouter(me)
	router.POST("/users/:user_id/report", handler.ReportUser)

	rec := do(router, http.MethodPost, "/users/2/report", "")

	assert.Equal(t, "ALREADY_REPORTED", decode(t, rec)["code"])
	assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteNotificationNotOwned(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	repo.On("DeleteNotification", mock.Anything, int64(7), me).Return(repositories.ErrNotificationNotFound).Once()
	handler := NewNotificationHandler(services.NewNotificationService(repo, new(mocks.UserRepositoryMock), mocks.NewBroadcasterMock(), new(mocks.PusherMock), jobs.SyncDispatcher{}))
	router := newRouter(me)
	router.DELETE("/notifications/:notification_id", handler.Delete)

	rec := do(router, http.MethodDelete, "/notifications/7", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])
}

func TestListGossipBadLimit(t *testing.T) {
	handler := NewMessageHandler(nil, services.NewGossipService(new(mocks.GossipRepositoryMock), mocks.NewBroadcasterMock()))
	router := newRouter(me)
	router.GET("/gossip", handler.ListGossip)

	rec := do(router, http.MethodGet, "/gossip?limit=lots", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayTicTacToeMoveNeedsCell(t *testing.T) {
	handler := NewGameHandler(services.NewGameService(new(mocks.GameRepositoryMock), new(mocks.UserRepositoryMock), mocks.NewBroadcasterMock(), new(mocks.NotifierMock), jobs.SyncDispatcher{}), nil)
	router := newRouter(me)
	router.POST("/games/:session_id/move", handler.PlayTicTacToeMove)

	rec := do(router, http.MethodPost, "/games/4/move", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])
}

func TestTruthDareNotYourTurn(t *testing.T) {
	repo := new(mocks.TruthDareRepositoryMock)
	repo.On("GetTruthDare", mock.Anything, int64(5)).Return(models.TruthDareSession{
		ID: 5, Player1ID: other, Player2ID: me, Status: models.TruthDareActive, CurrentTurn: other, Rounds: models.TruthDareRounds{},
	}, nil).Once()
	svc := services.NewTruthDareService(repo, new(mocks.UserRepositoryMock), mocks.NewBroadcasterMock(), new(mocks.NotifierMock))
	handler := NewGameHandler(nil, svc)
	router := newRouter(me)
	router.POST("/truth-dare/:session_id/choice", handler.MakeChoice)

	rec := do(router, http.MethodPost, "/truth-dare/5/choice", `{"choice":"truth","question":"why?"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_YOUR_TURN", decode(t, rec)["code"])
}

type socketCounter struct{ users, sockets int }

func (s socketCounter) Stats() (int, int) { return s.users, s.sockets }

func TestDebugRoutes(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "audit.test", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Action == telemetry.ActionProbe && env.ActorID != nil && *env.ActorID == me && env.RequestID == "req-7"
	})).Return(nil).Once()
	emitter := telemetry.NewAuditEmitter(publisher, "audit.test", "connectibles", "test")

	router := newRouter(me)
	RegisterDebugRoutes(router, emitter, socketCounter{users: 2, sockets: 3}, true)

	rec := do(router, http.MethodPost, "/debug/audit-probe", "", "X-Request-ID", "req-7")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "req-7", decode(t, rec)["request_id"])
	publisher.AssertExpectations(t)

	rec = do(router, http.MethodGet, "/debug/sockets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["sockets"])
}

func TestDebugRoutesDisabled(t *testing.T) {
	router := newRouter(me)
	RegisterDebugRoutes(router, nil, socketCounter{}, false)

	rec := do(router, http.MethodGet, "/debug/sockets", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
