package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/albaledger/portal/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthService Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	users  map[string]*auth.User
	hashes map[string]string
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*auth.User),
		hashes: make(map[string]string),
	}
}

func (m *mockUserRepository) addUser(u *auth.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[u.Username] = u
	m.hashes[u.Username] = string(hash)
}

func (m *mockUserRepository) GetCredentials(username string) (string, int64, error) {
	u, exists := m.users[username]
	if !exists {
		return "", 0, auth.ErrInvalidCredentials
	}
	return m.hashes[username], u.ID, nil
}

func (m *mockUserRepository) GetUserByID(userID int64) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockUserRepository
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockRepo.addUser(&auth.User{
			ID:       2,
			Username: "klient1",
			Name:     "Agron Berisha",
			Role:     auth.RoleClient,
			IsActive: true,
		}, "password")
		mockRepo.addUser(&auth.User{
			ID:       6,
			Username: "inactive",
			Name:     "Ish Punonjës",
			Role:     auth.RoleEmployee,
			IsActive: false,
		}, "password")

		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdefgh",
			"test-refresh-secret-0123456789abcdefg",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(mockRepo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Username: "klient1", Password: "password"})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "klient1", Password: "wrong"})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown username", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "nobody", Password: "password"})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an inactive user", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "inactive", Password: "password"})

			Expect(err).To(Equal(auth.ErrUserInactive))
		})

		It("should reject missing fields", func() {
			_, err := service.Authenticate(auth.LoginDTO{Username: "klient1"})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("token validation", func() {
		It("should accept an issued access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Username: "klient1", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(2)))
		})

		It("should reject a tampered token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Username: "klient1", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.AccessToken + "x")

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should issue a fresh pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Username: "klient1", Password: "password"})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(2)))
		})
	})

	Describe("session helpers", func() {
		It("should give admins every client", func() {
			admin := &auth.User{ID: 1, Role: auth.RoleAdmin}

			Expect(admin.ManagesClient(42)).To(BeTrue())
		})

		It("should scope employees to their assignments", func() {
			emp := &auth.User{ID: 4, Role: auth.RoleEmployee, AssignedClients: []int64{2}}

			Expect(emp.ManagesClient(2)).To(BeTrue())
			Expect(emp.ManagesClient(3)).To(BeFalse())
		})

		It("should never let clients manage other clients", func() {
			c := &auth.User{ID: 2, Role: auth.RoleClient}

			Expect(c.ManagesClient(3)).To(BeFalse())
			Expect(c.IsStaff()).To(BeFalse())
		})
	})
})
