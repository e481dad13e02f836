package settings

// Setting is one named value of the output surface. Value holds a string,
// bool, int, []string or []AttributeMapping.
type Setting struct {
	Name   string
	Value  any
	Secret bool
}

// AttributeMapping maps an identity-provider claim onto a Seafile user field.
type AttributeMapping struct {
	Claim    string
	Required bool
	Field    string
}

// OAuth groups the identity-provider integration.
type OAuth struct {
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	ProviderDomain   string
	AuthorizationURL string
	TokenURL         string
	UserInfoURL      string
	Scope            []string
	AttributeMap     []AttributeMapping
}

// OfficeWebApp holds the Collabora Online (WOPI) integration block.
type OfficeWebApp struct {
	ServerType            string
	BaseURL               string
	Name                  string
	AccessTokenExpiration int
	FileExtensions        []string
	EnableEdit            bool
	EditFileExtensions    []string
}

// Settings is the assembled overlay. It is built once by Assembler.Assemble
// and must not be modified afterwards.
type Settings struct {
	OAuth             OAuth
	LoginURL          string
	LogoutRedirectURL string

	CSRFTrustedOrigins []string
	AllowedHosts       []string

	MaxUploadFileSize int
	MaxFilesPerUpload int

	// Office is nil when the office integration is disabled.
	Office *OfficeWebApp
}

const (
	providerName        = "authentik"
	officeServerType    = "CollaboraOffice"
	officeWebAppName    = "Collabora Online"
	wopiTokenExpiration = 30 * 60
)

var (
	defaultScope = []string{"openid", "profile", "email"}

	defaultAttributeMap = []AttributeMapping{
		{Claim: "sub", Required: true, Field: "uid"},
		{Claim: "email", Required: true, Field: "contact_email"},
		{Claim: "name", Required: false, Field: "name"},
	}

	officeViewExtensions = []string{
		"odt", "fodt", "odp", "fodp", "ods", "fods", "odg", "fodg",
		"doc", "docx", "docm", "dot", "dotx", "dotm",
		"xls", "xlsx", "xlsm", "xlsb", "xla",
		"ppt", "pptx", "pptm", "ppsx", "potx", "potm",
		"rtf", "txt", "csv",
	}

	officeEditExtensions = []string{
		"odt", "fodt", "odp", "fodp", "ods", "fods", "odg", "fodg",
		"doc", "docx", "docm",
		"xls", "xlsx", "xlsm", "xlsb",
		"ppt", "pptx", "pptm", "ppsx",
		"rtf", "txt", "csv",
	}
)
