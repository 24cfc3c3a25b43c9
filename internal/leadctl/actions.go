package leadctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"leadfunnel/internal/store"
	"leadfunnel/pkg/types"
)

// Config carries the CLI's connection settings, filled from flags with
// environment variable defaults.
type Config struct {
	ServerURL string
	User      string
	Pass      string
	DataDir   string
	PollSecs  int
	LogLvl    string
}

// DefaultConfig reads LEADCTL_* environment overrides.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envStr("LEADCTL_SERVER", "http://localhost:8080"),
		User:      envStr("LEADCTL_USER", "admin"),
		Pass:      envStr("LEADCTL_PASS", "solar123"),
		DataDir:   envStr("LEADCTL_DATA_DIR", "~/.leadfunnel"),
		PollSecs:  envInt("LEADCTL_POLL_SECS", 30),
		LogLvl:    envStr("LEADCTL_LOG_LEVEL", "info"),
	}
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func fnLogin(cfg *Config) error {
	body, _ := json.Marshal(types.LoginRequest{Username: cfg.User, Password: cfg.Pass})
	resp, err := httpClient.Post(cfg.ServerURL+"/admin/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}
	info("[leadctl] logged in as " + cfg.User)
	return nil
}

func fnLogout(cfg *Config) error {
	resp, err := httpClient.Post(cfg.ServerURL+"/admin/logout", "application/json", nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	resp.Body.Close()
	return nil
}

func adminGet(cfg *Config, path string, v any) error {
	resp, err := httpClient.Get(cfg.ServerURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("not logged in; run 'leadctl login' first")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func adminDelete(cfg *Config, path string) error {
	req, err := http.NewRequest(http.MethodDelete, cfg.ServerURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("not logged in; run 'leadctl login' first")
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("DELETE %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fnLeadsList(cfg *Config) error {
	var out types.LeadsResponse
	if err := adminGet(cfg, "/admin/leads", &out); err != nil {
		return err
	}
	return printJSON(out.Leads)
}

func fnLeadsClear(cfg *Config) error {
	if err := adminDelete(cfg, "/admin/leads"); err != nil {
		return err
	}
	info("[leadctl] lead list cleared")
	return nil
}

// fnLeadsLocal reads the durable mirror directly, bypassing the server.
func fnLeadsLocal(cfg *Config) error {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	leads, err := st.Leads()
	if err != nil {
		return err
	}
	return printJSON(leads)
}

func fnCustomersList(cfg *Config) error {
	var out types.CustomersResponse
	if err := adminGet(cfg, "/admin/customers", &out); err != nil {
		return err
	}
	return printJSON(out.Customers)
}

func fnCustomerDelete(cfg *Config, id string) error {
	if err := adminDelete(cfg, "/admin/customers/"+id); err != nil {
		return err
	}
	info("[leadctl] deleted customer " + id)
	return nil
}

// fnBillDownload fetches a customer's utility bill into outDir, deriving the
// file name from the Content-Disposition header when present.
func fnBillDownload(cfg *Config, id, outDir string) error {
	resp, err := httpClient.Get(cfg.ServerURL + "/admin/customers/" + id + "/file")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("not logged in; run 'leadctl login' first")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	name := "utility-bill"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			name = filepath.Base(params["filename"])
		}
	}
	dest := filepath.Join(outDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	info("[leadctl] saved " + dest)
	return nil
}

// fnWatch polls the customer list on an interval and reports count changes.
func fnWatch(cfg *Config) error {
	interval := time.Duration(cfg.PollSecs) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	last := -1
	for {
		var out types.CustomersResponse
		if err := adminGet(cfg, "/admin/customers", &out); err != nil {
			warn("[leadctl] poll failed: " + err.Error())
		} else if n := len(out.Customers); n != last {
			fmt.Printf("%s customers=%d\n", time.Now().Format(time.RFC3339), n)
			last = n
		}
		time.Sleep(interval)
	}
}
