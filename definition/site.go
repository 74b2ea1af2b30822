package definition

// Session is the already valid credential set a site is searched with.
// Obtaining it is somebody else's job.
type Session struct {
	Cookie    string
	UserAgent string
	Headers   map[string]string
}

// Site binds a shared definition to one configured account.
type Site struct {
	*Indexer
	SiteID string
	Name   string
	// 用户配置可以覆盖定义中的语言，不修改共享的定义
	Language string
	Session  Session
}

// Bind 站点名称以用户配置为准，未配置时使用定义中的名称
func Bind(def *Indexer, siteID, name string, s Session) *Site {
	if def == nil {
		return nil
	}
	if name == "" {
		name = def.Name
	}
	if siteID == "" {
		siteID = def.ID
	}
	return &Site{Indexer: def, SiteID: siteID, Name: name, Language: def.Language, Session: s}
}

// UserAgent returns the session agent, falling back to the definition's.
func (s *Site) UserAgent() string {
	if s.Session.UserAgent != "" {
		return s.Session.UserAgent
	}
	return s.UA
}

// Resolve looks the definition up by url and binds it.
func (c *Catalog) Resolve(rawURL, siteID, name string, s Session) (*Site, error) {
	def, err := c.Lookup(rawURL)
	if err != nil {
		return nil, err
	}
	return Bind(def, siteID, name, s), nil
}
