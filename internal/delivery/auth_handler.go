package delivery

import (
	"html/template"
	"net/http"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"
	"storefront_service/internal/notify"
	"storefront_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	useCase usecase.AuthUseCase
	store   sessions.Store
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, store sessions.Store, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		store:   store,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET(middleware.LoginPath, h.LoginPage)
	router.POST(middleware.LoginPath, h.Login)
	router.POST("/register", h.Register)
	router.POST("/logout", h.Logout)
	router.GET("/me", h.Me)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// MeResponse mirrors the browser markers of the storefront.
type MeResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UserEmail       string `json:"userEmail,omitempty"`
	UserName        string `json:"userName,omitempty"`
}

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="pt-BR"><head><meta charset="utf-8"><title>Entrar</title></head>
<body>
{{range .}}<p class="notice">{{.}}</p>{{end}}
<form method="post" action="/login">
<input type="email" name="email" placeholder="Email">
<input type="password" name="password" placeholder="Senha">
<button type="submit">Entrar</button>
</form>
</body></html>`))

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", middleware.Flashes(c, h.store))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warnf("Failed to bind login request: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := mapErrorToStatus(err)
		if status == http.StatusUnauthorized {
			ErrorResponse(c, status, notify.Failure(notify.OpLogin, err).Description)
			return
		}
		h.log.Errorf("Login failed for %s: %v", req.Email, err)
		ErrorResponse(c, status, "Login failed")
		return
	}
	h.startSession(c, session, notify.OpLogin)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warnf("Failed to bind register request: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.useCase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.log.Warnf("Registration failed for %s: %v", req.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Registration failed: "+err.Error())
		return
	}
	h.startSession(c, session, notify.OpRegister)
}

func (h *AuthHandler) startSession(c *gin.Context, session *domain.Session, op string) {
	if err := middleware.SaveSession(c, h.store, session); err != nil {
		h.log.Errorf("Failed to save session cookie for %s: %v", session.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "Could not start session")
		return
	}
	h.log.Infof("Session started for %s", session.Email)
	SuccessResponse(c, http.StatusOK, notify.Success(op).Description, session)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.RequestToken(c, h.store); token != "" {
		if err := h.useCase.Logout(c.Request.Context(), token); err != nil {
			h.log.Debugf("Logout with unusable token: %v", err)
		}
	}
	if err := middleware.ClearSession(c, h.store); err != nil {
		h.log.Warnf("Failed to clear session cookie: %v", err)
	}
	SuccessResponse(c, http.StatusOK, notify.Success(notify.OpLogout).Description, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		SuccessResponse(c, http.StatusOK, "Anonymous", MeResponse{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Authenticated", MeResponse{
		IsAuthenticated: true,
		UserEmail:       session.Email,
		UserName:        session.Name,
	})
}
