package platform

import (
	"testing"

	"github.com/awantoch/sitefn/config"
	"github.com/stretchr/testify/assert"
)

func TestFirebaseConfig_EmptyUsesSDKDefaults(t *testing.T) {
	assert.Nil(t, firebaseConfig(config.PlatformConfig{}))
	// A credentials file alone does not force an explicit config.
	assert.Nil(t, firebaseConfig(config.PlatformConfig{CredentialsFile: "/tmp/sa.json"}))
}

func TestFirebaseConfig_Explicit(t *testing.T) {
	fc := firebaseConfig(config.PlatformConfig{
		ProjectID:     "demo-project",
		DatabaseURL:   "https://demo-project.firebaseio.com",
		StorageBucket: "demo-project.appspot.com",
	})
	if assert.NotNil(t, fc) {
		assert.Equal(t, "demo-project", fc.ProjectID)
		assert.Equal(t, "https://demo-project.firebaseio.com", fc.DatabaseURL)
		assert.Equal(t, "demo-project.appspot.com", fc.StorageBucket)
		assert.Empty(t, fc.ServiceAccountID)
	}
}
