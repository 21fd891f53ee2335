package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/utils"
)

var errEmailTaken = errors.New("email already registered")

func (s *Server) register(c *gin.Context) {
	var form models.RegisterForm
	if !bindForm(c, &form) {
		return
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))

	u, err := s.addAccount(models.User{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
		Role:  models.RoleMember,
	}, form.Password)
	if errors.Is(err, errEmailTaken) {
		fail(c, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		s.logger.Error("register", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	s.issueToken(c, http.StatusCreated, u)
}

func (s *Server) login(c *gin.Context) {
	var form models.LoginForm
	if !bindForm(c, &form) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))

	s.mu.Lock()
	var acct account
	id, found := s.byEmail[email]
	if found {
		acct = *s.accounts[id]
	}
	s.mu.Unlock()

	if !found || bcrypt.CompareHashAndPassword(acct.hash, []byte(form.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.issueToken(c, http.StatusOK, acct.user)
}

func (s *Server) issueToken(c *gin.Context, status int, u models.User) {
	token, err := utils.SignToken(s.secret, u.ID, string(u.Role), tokenTTL)
	if err != nil {
		s.logger.Error("sign token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(status, gin.H{"success": true, "token": token, "user": u})
}

func (s *Server) me(c *gin.Context) {
	u, found := s.caller(c)
	if !found {
		fail(c, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	reply(c, http.StatusOK, u)
}

func (s *Server) updateProfile(c *gin.Context) {
	var form models.ProfileForm
	if !bindForm(c, &form) {
		return
	}
	id := c.GetString(middlewares.ContextUserID)
	email := strings.ToLower(strings.TrimSpace(form.Email))

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, found := s.accounts[id]
	if !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if other, taken := s.byEmail[email]; taken && other != id {
		fail(c, http.StatusBadRequest, "Email already in use")
		return
	}
	delete(s.byEmail, acct.user.Email)
	s.byEmail[email] = id
	acct.user.Name = form.Name
	acct.user.Email = email
	acct.user.Phone = form.Phone
	if form.Address != nil {
		addr := *form.Address
		acct.user.Address = &addr
	}
	reply(c, http.StatusOK, acct.user)
}

// caller returns the authenticated user.
func (s *Server) caller(c *gin.Context) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, found := s.accounts[c.GetString(middlewares.ContextUserID)]
	if !found {
		return models.User{}, false
	}
	return acct.user, true
}

// bindForm decodes the body and applies the same required-field rules the
// client enforces. It writes the 400 itself.
func bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBindJSON(form); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := models.Validate(form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
