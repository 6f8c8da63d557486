package core

var (
	_ Registry            = (*SourceRegistry)(nil)
	_ CredentialsResolver = (*Resolver)(nil)
	_ ConfigProvider      = (*CfgxConfigProvider)(nil)
	_ OptionsResolver     = GoOptionsResolver{}
	_ RawConfigLoader     = staticRawConfigLoader{}
	_ Materialized        = RawCredentials{}
	_ Materialized        = ResolvableCredentials{}
	_ Materialized        = LegacyRefreshableCredentials{}
)
