package rest

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRestContract(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Contract Suite")
}

var _ = Describe("OpenAPI contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()

		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should describe every mounted route", func() {
		expected := []string{
			"/health",
			"/ping",
			"/auth/login",
			"/auth/refresh",
			"/auth/logout",
			"/categories",
			"/users/me",
			"/clients",
			"/documents",
			"/documents/{id}",
			"/documents/{id}/register",
			"/documents/{id}/submit-approval",
			"/documents/{id}/approve",
			"/documents/{id}/reject",
			"/documents/{id}/assign",
			"/employees",
			"/employees/{id}",
			"/employees/{id}/clients",
			"/notifications",
			"/notifications/unread-count",
			"/notifications/{id}/read",
			"/notifications/read-all",
			"/deadlines",
		}

		for _, path := range expected {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should require a batch payload for document submission", func() {
		item := doc.Paths.Find("/documents")
		Expect(item).NotTo(BeNil())
		Expect(item.Post).NotTo(BeNil())
		Expect(item.Post.RequestBody).NotTo(BeNil())

		media := item.Post.RequestBody.Value.Content.Get("application/json")
		Expect(media).NotTo(BeNil())

		schema := media.Schema.Value
		Expect(schema.Required).To(ContainElements("category", "files"))
	})

	It("should enumerate the full category set", func() {
		item := doc.Paths.Find("/documents")
		media := item.Post.RequestBody.Value.Content.Get("application/json")
		category := media.Schema.Value.Properties["category"].Value

		Expect(category.Enum).To(HaveLen(7))
		Expect(category.Enum).To(ContainElements("shpenzime", "blerje", "import", "export"))
	})
})
