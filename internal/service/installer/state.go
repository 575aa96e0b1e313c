package installer

// keyMode is wizard-only state and is never written to .env.
const keyMode = "ASK_INSTALL_MODE"

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}
