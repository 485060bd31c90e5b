package line

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Client", func() {
	var (
		server *ghttp.Server
		client *Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = ghttp.NewServer()
		client = NewClientWithURLs("test-token", server.URL(), server.URL(), server.HTTPTestServer.Client())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("FetchMedia", func() {
		It("should download the message content with the bearer token", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", "/v2/bot/message/mid-1/content"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer test-token"),
				ghttp.RespondWith(http.StatusOK, "image bytes", http.Header{"Content-Type": []string{"image/jpeg"}}),
			))

			data, contentType, err := client.FetchMedia(ctx, "mid-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("image bytes")))
			Expect(contentType).To(Equal("image/jpeg"))
		})

		It("should surface a non-200 response as an error", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, "not found"))

			_, _, err := client.FetchMedia(ctx, "mid-gone")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 404"))
		})
	})

	Describe("Reply", func() {
		It("should POST a single text message for the token", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/v2/bot/message/reply"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer test-token"),
				ghttp.VerifyContentType("application/json"),
				ghttp.VerifyJSON(`{
					"replyToken": "rt-1",
					"messages": [{"type": "text", "text": "สวัสดีครับ"}]
				}`),
				ghttp.RespondWith(http.StatusOK, "{}"),
			))

			Expect(client.Reply(ctx, "rt-1", "สวัสดีครับ")).To(Succeed())
		})

		It("should surface a non-200 response as an error", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusBadRequest, "invalid reply token"))

			err := client.Reply(ctx, "rt-stale", "x")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 400"))
			Expect(err.Error()).To(ContainSubstring("invalid reply token"))
		})
	})
})
