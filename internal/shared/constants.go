package shared

import "time"

// Client Configuration
const (
	DefaultBaseURL    = "http://127.0.0.1:8080"
	RequestIDPrefix   = "go"
	DefaultChatModel  = "gpt-4o-mini"
	DefaultChatPrompt = "Say hello in one sentence."

	DefaultEmbeddingsModel = "text-embedding-3-small"
	DefaultMessagesModel   = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens       = 128
)

// Gateway Configuration
const (
	GatewayRequestIDPrefix = "ditto"
	DefaultAuditLimit      = 100
	MaxAuditLimit          = 1000
	KeyTokenPrefix         = "vk-"
	KeyTokenLength         = 28
	DefaultShutdownTimeout = 10 * time.Minute
)

// Header names are kept lowercase; http.Header canonicalizes on Set and
// Get, so the case here never reaches the wire.
const (
	HeaderContentType   = "content-type"
	HeaderAuthorization = "authorization"
	HeaderRequestID     = "x-request-id"
	HeaderAPIKey        = "x-api-key"
	HeaderVirtualKey    = "x-ditto-virtual-key"
	HeaderAdminToken    = "x-admin-token"
)

// Gateway Routes
const (
	RouteChatCompletions = "/v1/chat/completions"
	RouteEmbeddings      = "/v1/embeddings"
	RouteModels          = "/v1/models"
	RouteMessages        = "/v1/messages"
	RouteCountTokens     = "/v1/messages/count_tokens"
	RouteHealth          = "/health"
	RouteAdminKeys       = "/admin/keys"
	RouteAdminAudit      = "/admin/audit"
	RouteAdminUsage      = "/admin/usage"
)

// DefaultModelIDs is the catalog the mock gateway advertises.
var DefaultModelIDs = []string{
	"gpt-4o-mini",
	"text-embedding-3-small",
	"claude-3-5-sonnet-20241022",
}
