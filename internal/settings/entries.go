package settings

import "slices"

// Entries returns the overlay as an ordered list of settings. The order is
// fixed and names are unique, so equal Settings always yield equal entries.
// Slices in the result are copies.
func (s *Settings) Entries() []Setting {
	out := make([]Setting, 0, 64)
	add := func(name string, value any) {
		out = append(out, Setting{Name: name, Value: value})
	}
	addSecret := func(name, value string) {
		out = append(out, Setting{Name: name, Value: value, Secret: true})
	}

	// OAuth
	add("ENABLE_OAUTH", true)
	add("OAUTH_CREATE_UNKNOWN_USER", true)
	add("OAUTH_ACTIVATE_USER_AFTER_CREATION", true)
	addSecret(SecretClientID, s.OAuth.ClientID)
	addSecret(SecretClientSecret, s.OAuth.ClientSecret)
	add("OAUTH_REDIRECT_URL", s.OAuth.RedirectURL)
	add("OAUTH_PROVIDER", providerName)
	add("OAUTH_PROVIDER_DOMAIN", s.OAuth.ProviderDomain)
	add("OAUTH_AUTHORIZATION_URL", s.OAuth.AuthorizationURL)
	add("OAUTH_TOKEN_URL", s.OAuth.TokenURL)
	add("OAUTH_USER_INFO_URL", s.OAuth.UserInfoURL)
	add("OAUTH_SCOPE", slices.Clone(s.OAuth.Scope))
	add("OAUTH_ATTRIBUTE_MAP", slices.Clone(s.OAuth.AttributeMap))

	// SSO login
	add("LOGIN_URL", s.LoginURL)
	add("CLIENT_SSO_VIA_LOCAL_BROWSER", true)
	add("DISABLE_ADFS_USER_PWD_LOGIN", true)
	add("ENABLE_APP_SPECIFIC_PASSWORD", true)
	add("ENABLE_CHANGE_PASSWORD", false)
	add("ENABLE_SSO_USER_CHANGE_PASSWORD", false)
	add("LOGOUT_REDIRECT_URL", s.LogoutRedirectURL)

	// Access control and privacy
	add("ENABLE_SIGNUP", false)
	add("ENABLE_GLOBAL_ADDRESSBOOK", true)
	add("CLOUD_MODE", true)
	add("ENABLE_DELETE_ACCOUNT", false)
	add("ENABLE_UPDATE_USER_INFO", false)
	add("ENABLE_WATERMARK", true)
	add("DISABLE_SYNC_WITH_ANY_FOLDER", true)

	// Sessions and login
	add("SESSION_EXPIRE_AT_BROWSER_CLOSE", true)
	add("SESSION_COOKIE_AGE", 86400)
	add("SESSION_SAVE_EVERY_REQUEST", true)
	add("LOGIN_ATTEMPT_LIMIT", 5)
	add("FREEZE_USER_ON_LOGIN_FAILED", true)

	// Password policies
	add("USER_PASSWORD_MIN_LENGTH", 12)
	add("USER_PASSWORD_STRENGTH_LEVEL", 4)
	add("USER_STRONG_PASSWORD_REQUIRED", true)
	add("WEBDAV_SECRET_MIN_LENGTH", 12)
	add("WEBDAV_SECRET_STRENGTH_LEVEL", 3)
	add("SHARE_LINK_FORCE_USE_PASSWORD", true)
	add("SHARE_LINK_PASSWORD_MIN_LENGTH", 10)
	add("SHARE_LINK_PASSWORD_STRENGTH_LEVEL", 4)
	add("SHARE_LINK_EXPIRE_DAYS_MAX", 90)
	add("ENABLE_TWO_FACTOR_AUTH", false)

	// CSRF, cookies and hosts
	add("CSRF_TRUSTED_ORIGINS", slices.Clone(s.CSRFTrustedOrigins))
	add("CSRF_COOKIE_SAMESITE", "Strict")
	add("CSRF_COOKIE_SECURE", true)
	add("SESSION_COOKIE_SECURE", true)
	add("SESSION_COOKIE_SAMESITE", "Lax")
	add("ALLOWED_HOSTS", slices.Clone(s.AllowedHosts))

	// Uploads, encryption and locking
	add("MAX_UPLOAD_FILE_SIZE", s.MaxUploadFileSize)
	add("MAX_NUMBER_OF_FILES_FOR_FILEUPLOAD", s.MaxFilesPerUpload)
	add("REPO_PASSWORD_MIN_LENGTH", 12)
	add("ENCRYPTED_LIBRARY_VERSION", 4)
	add("FILE_LOCK_EXPIRATION_DAYS", 7)

	// Collabora Online
	add("ENABLE_OFFICE_WEB_APP", s.Office != nil)
	if o := s.Office; o != nil {
		add("OFFICE_SERVER_TYPE", o.ServerType)
		add("OFFICE_WEB_APP_BASE_URL", o.BaseURL)
		add("OFFICE_WEB_APP_NAME", o.Name)
		add("WOPI_ACCESS_TOKEN_EXPIRATION", o.AccessTokenExpiration)
		add("OFFICE_WEB_APP_FILE_EXTENSION", slices.Clone(o.FileExtensions))
		add("ENABLE_OFFICE_WEB_APP_EDIT", o.EnableEdit)
		add("OFFICE_WEB_APP_EDIT_FILE_EXTENSION", slices.Clone(o.EditFileExtensions))
	}

	// Site
	add("LANGUAGE_CODE", "de")
	add("SITE_NAME", "Seafile")
	add("SITE_TITLE", "Private Seafile")
	add("ENABLE_SETTINGS_VIA_WEB", false)

	return out
}

// Lookup returns the entry with the given name.
func (s *Settings) Lookup(name string) (Setting, bool) {
	for _, entry := range s.Entries() {
		if entry.Name == name {
			return entry, true
		}
	}
	return Setting{}, false
}

// OfficeSettingNames lists the settings emitted only when the office integration is enabled.
func OfficeSettingNames() []string {
	return []string{
		"OFFICE_SERVER_TYPE",
		"OFFICE_WEB_APP_BASE_URL",
		"OFFICE_WEB_APP_NAME",
		"WOPI_ACCESS_TOKEN_EXPIRATION",
		"OFFICE_WEB_APP_FILE_EXTENSION",
		"ENABLE_OFFICE_WEB_APP_EDIT",
		"OFFICE_WEB_APP_EDIT_FILE_EXTENSION",
	}
}
