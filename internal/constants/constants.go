package constants

// Session
const (
	SessionCookieName    = "circleone_session"
	ContextKeyUserID     = "user_id"
	ContextKeyUser       = "current_user"
	SessionKeyOAuthNonce = "oauth_nonce"
	SessionKeyCSRFToken  = "csrf_token"
	CSRFFormField        = "csrf_token"
	CSRFHeader           = "X-CSRF-Token"
	SessionMaxAge        = 86400 * 7
)

// Auth
const (
	MinPasswordLength      = 6
	PlaceholderEmailDomain = "circleone.local"
	AvatarBaseURL          = "https://ui-avatars.com/api/"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderTest   = "test"

	TestUserEmail = "test@example.com"
	TestUserName  = "Test User"
)

// Preferences
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Uploads
const (
	MaxUploadBytes     = 5 * 1024 * 1024
	MaxImageDimension  = 800
	MaxImagePixels     = 40_000_000
	BusinessLogoFolder = "business_logos"
)

// AllowedImageExtensions lists the accepted upload extensions, lowercase and without a dot.
var AllowedImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
