package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/clack-cli/clack/internal/keyring"
	"github.com/clack-cli/clack/internal/version"
)

// Profile section keys. Migrations and the profile layer share these.
const (
	KeyAPI         = "api"
	KeyLogin       = "key"
	KeySecret      = "secret"
	KeyHost        = "host"
	KeyDescription = "description"
	KeyVerifySSL   = "verify_ssl"
	KeyIsAdmin     = "is_admin"
)

// legacyFamilyAC1 is the retired account API v1. Profiles targeting it are
// removed by the 0.5.0 migration; nothing else may reference it.
const legacyFamilyAC1 = "ac1"

// migration is one ordered upgrade step. It runs when the stored schema
// version is below the Below threshold. Steps must be idempotent: applying
// one to an already-upgraded store is a no-op.
type migration struct {
	// Below is the version threshold this step upgrades to.
	Below string
	// Title is the human-readable summary shown when the step runs.
	Title string
	// Apply transforms the in-memory store and returns detail lines for
	// the upgrade report.
	Apply func(st *Store, secrets keyring.Store) ([]string, error)
}

// migrations holds all upgrade steps in the order they must run. Later
// steps assume earlier ones completed.
var migrations = []migration{
	{
		Below: "0.4.0",
		Title: "Moving secrets from the config file to the keyring",
		Apply: migrateExternalizeSecrets,
	},
	{
		Below: "0.5.0",
		Title: "Removing " + legacyFamilyAC1 + " profiles because that API no longer exists",
		Apply: migrateRemoveRetiredFamily,
	},
	{
		Below: "2.0.0",
		Title: "Renaming the default pointer and adding setting defaults",
		Apply: migrateRenameDefaultAndInjectDefaults,
	},
}

// Report summarizes a migration run.
type Report struct {
	// From is the schema version found on disk.
	From string
	// To is the schema version after migration.
	To string
	// Created is true when the store did not exist before this run.
	Created bool
	// Changes holds human-readable lines describing what changed.
	Changes []string
}

// Migrate runs every triggered upgrade step in order. When any step ran,
// the version field is bumped to the running schema version and the store
// is saved immediately; the returned report is non-nil in that case.
// Running Migrate on an up-to-date store changes nothing and returns nil.
func (st *Store) Migrate(secrets keyring.Store) (*Report, error) {
	from := st.Version()
	if !versionLess(from, version.Schema) {
		return nil, nil
	}

	report := &Report{
		From:    from,
		To:      version.Schema,
		Created: from == "0.0.1" && len(st.Profiles()) == 0,
	}

	for _, m := range migrations {
		if !versionLess(from, m.Below) {
			continue
		}
		lines, err := m.Apply(st, secrets)
		if err != nil {
			return nil, fmt.Errorf("migration %q failed: %w", m.Below, err)
		}
		report.Changes = append(report.Changes, m.Title)
		for _, line := range lines {
			report.Changes = append(report.Changes, "- "+line)
		}
	}

	st.Set(EtcSection, KeyVersion, version.Schema)
	if err := st.Save(); err != nil {
		return nil, err
	}
	return report, nil
}

// migrateExternalizeSecrets moves every inline secret into the keyring and
// deletes it from the plain store.
func migrateExternalizeSecrets(st *Store, secrets keyring.Store) ([]string, error) {
	var lines []string
	for _, name := range st.Profiles() {
		login := st.Get(name, KeyLogin, "")
		secret := st.Get(name, KeySecret, "")
		if login == "" || secret == "" {
			continue
		}
		if err := secrets.Set(name, login, secret); err != nil {
			return nil, err
		}
		st.Set(name, KeySecret, "")
		lines = append(lines, name)
	}
	return lines, nil
}

// migrateRemoveRetiredFamily deletes every profile targeting the retired
// ac1 family, including its keyring secret, and re-points the default
// profile when it was one of them.
func migrateRemoveRetiredFamily(st *Store, secrets keyring.Store) ([]string, error) {
	var lines []string
	for _, name := range st.Profiles() {
		if st.Get(name, KeyAPI, "") != legacyFamilyAC1 {
			continue
		}
		if login := st.Get(name, KeyLogin, ""); login != "" {
			if err := secrets.Delete(name, login); err != nil && !errors.Is(err, keyring.ErrSecretNotFound) {
				return nil, err
			}
		}
		if err := st.RemoveProfile(name); err != nil {
			return nil, err
		}
		lines = append(lines, "Removed: "+name)
	}

	// The pre-2.0.0 pointer key is still in use at this point.
	def := st.Get(EtcSection, KeyLegacyDefault, "")
	if def != "" && !st.HasProfile(def) {
		st.Set(EtcSection, KeyLegacyDefault, "")
		if profiles := st.Profiles(); len(profiles) > 0 {
			st.Set(EtcSection, KeyLegacyDefault, profiles[0])
		}
	}
	return lines, nil
}

// migrateRenameDefaultAndInjectDefaults renames etc.default to etc.env and
// fills in the documented defaults for any display setting not present.
func migrateRenameDefaultAndInjectDefaults(st *Store, _ keyring.Store) ([]string, error) {
	var lines []string
	if def := st.Get(EtcSection, KeyLegacyDefault, ""); def != "" {
		st.Set(EtcSection, KeyLegacyDefault, "")
		st.Set(EtcSection, KeyDefaultProfile, def)
		lines = append(lines, "Renamed default to env")
	}
	for key, setting := range CommonSettings {
		if st.Get(EtcSection, key, "") == "" {
			st.Set(EtcSection, key, setting.Default)
			lines = append(lines, "Added default for "+key)
		}
	}
	return lines, nil
}

// versionLess reports whether version a sorts strictly before version b.
// Versions are compared as dotted integer tuples; non-numeric suffixes
// (pre-release tags like 2.0.0b3) are ignored for ordering, which is
// sufficient for the closed set of schema versions this tool has shipped.
func versionLess(a, b string) bool {
	av := parseVersion(a)
	bv := parseVersion(b)
	for i := 0; i < len(av) || i < len(bv); i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x != y {
			return x < y
		}
	}
	return false
}

func parseVersion(v string) []int {
	parts := strings.Split(v, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		digits := p
		for i, r := range p {
			if r < '0' || r > '9' {
				digits = p[:i]
				break
			}
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			n = 0
		}
		nums = append(nums, n)
	}
	return nums
}
