package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shiva-pdv/api-contract-tests/apidef"
)

const userIDKey = "userId"

func (b *Backend) login(c *gin.Context) {
	var params apidef.LoginParams
	if err := c.ShouldBindJSON(&params); err != nil || params.Email == "" || params.Senha == "" {
		errorResponse(c, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}
	user, ok := b.findUser(params.Email, params.Senha)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "Email ou senha inválidos")
		return
	}
	token, err := b.signToken(user.ID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}
	c.JSON(http.StatusOK, apidef.LoginResponse{
		Token:   token,
		Usuario: apidef.Usuario{ID: user.ID, Email: user.Email, Nome: user.Name},
	})
}

func (b *Backend) me(c *gin.Context) {
	c.JSON(http.StatusOK, apidef.MeResponse{UserID: c.GetString(userIDKey)})
}

// requireToken rejects requests without a valid bearer token, with the same messages as the
// real backend.
func (b *Backend) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		errorResponse(c, http.StatusUnauthorized, "Token não fornecido")
		return
	}
	userID, ok := b.verifyToken(strings.TrimPrefix(header, "Bearer "))
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "Token inválido ou expirado")
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

func (b *Backend) findUser(email, password string) (User, bool) {
	for _, u := range b.users {
		if u.Email == email && u.Password == password {
			return u, true
		}
	}
	return User{}, false
}

func (b *Backend) signToken(userID string) (string, error) {
	now := b.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIDKey: userID,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString(b.secret)
}

func (b *Backend) verifyToken(s string) (string, bool) {
	token, err := jwt.Parse(s, func(*jwt.Token) (interface{}, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userID, ok := claims[userIDKey].(string)
	return userID, ok && userID != ""
}
