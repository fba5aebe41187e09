package test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SampleManifestYAML is a complete, valid manifest covering every section.
const SampleManifestYAML = `desktop: xfce
remote-access: xrdp
user: kiosk
upgrade: true
firewall: true
packages:
  - htop
  - curl
profiles:
  - name: work
    label: Work
    user-agent: "Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0"
    homepage: "https://intranet.example.com"
    resolution: 1920x1080
  - name: staging
    label: Staging
    user-agent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0"
    resolution: 1280x720
`

// MinimalManifestYAML is the smallest manifest that loads with defaults.
const MinimalManifestYAML = "user: kiosk\n"

// WriteSampleManifest writes SampleManifestYAML to path.
func WriteSampleManifest(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(SampleManifestYAML), 0644))
}
