package malloc

import "testing"

import "github.com/stretchr/testify/assert"

func TestDefaultsettingsValid(t *testing.T) {
	setts := Defaultsettings(2)
	assert.NoError(t, ValidateSettings(setts))
	assert.Equal(t, int64(4), setts.Int64("numarenas"))
}

func TestDefaultsettingsNumArenasFloorsAtFour(t *testing.T) {
	setts := Defaultsettings(1)
	assert.Equal(t, int64(4), setts.Int64("numarenas"))
}

func TestValidateSettingsRejectsNonPowerOfTwoPageSize(t *testing.T) {
	setts := Defaultsettings(4)
	setts["pagesize"] = int64(5000)
	assert.Error(t, ValidateSettings(setts))
}

func TestValidateSettingsRejectsTooSmallPageSize(t *testing.T) {
	setts := Defaultsettings(4)
	setts["pagesize"] = int64(1024)
	assert.Error(t, ValidateSettings(setts))
}

func TestValidateSettingsRejectsOversizedChunk(t *testing.T) {
	setts := Defaultsettings(4)
	setts["maxorder"] = int64(40)
	assert.Error(t, ValidateSettings(setts))
}
