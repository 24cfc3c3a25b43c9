package blackbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil { t.Fatalf("split: %v", err) }
	cleanup := func(){ _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "leadfunnel")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/leadfunnel")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// fakeCollaborator is an in-test stand-in for the customer records service.
type fakeCollaborator struct {
	mu       sync.Mutex
	creates  int
	patches  []map[string]any
	location string
	phone    string
	billName string
}

func (f *fakeCollaborator) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var info struct {
			Phone string `json:"phone"`
		}
		_ = json.Unmarshal([]byte(r.FormValue("personalInfo")), &info)
		_, header, err := r.FormFile("utilityBill")
		f.mu.Lock()
		f.creates++
		f.location = r.FormValue("location")
		f.phone = info.Phone
		if err == nil { f.billName = header.Filename }
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "bb-cust-1"})
	})
	mux.HandleFunc("/api/customers/bb-cust-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		f.mu.Lock()
		f.patches = append(f.patches, patch)
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, backendURL, dataDir string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin,
		"--addr", addr,
		"--backend-url", backendURL,
		"--data-dir", dataDir,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func(){ _ = cmd.Process.Kill() })
	return sp
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil { t.Fatalf("post %s: %v", url, err) }
	out, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, out
}

type sessionView struct {
	ID       string  `json:"id"`
	Step     string  `json:"step"`
	Progress float64 `json:"progress"`
	Form     *struct {
		Location     string            `json:"location"`
		PersonalInfo struct {
			Phone string `json:"phone"`
			Email string `json:"email"`
		} `json:"personalInfo"`
		QuizAnswers map[string]string `json:"quizAnswers"`
		CustomerID  string            `json:"customerId"`
	} `json:"form"`
}

func decodeView(t *testing.T, b []byte) sessionView {
	t.Helper()
	var v sessionView
	if err := json.Unmarshal(b, &v); err != nil { t.Fatalf("decode view: %v (%s)", err, b) }
	return v
}

func TestFullFunnelFlow(t *testing.T) {
	if testing.Short() { t.Skip("short mode") }
	collab := &fakeCollaborator{}
	collabSrv := httptest.NewServer(collab.handler())
	defer collabSrv.Close()

	bin := buildBinary(t)
	port, closePort := findFreePort(t)
	closePort()
	dataDir := t.TempDir()
	sp := startServer(t, bin, collabSrv.URL, dataDir, port)

	resp, body := postJSON(t, sp.base+"/sessions", nil)
	if resp.StatusCode != http.StatusCreated { t.Fatalf("start session: %d (%s)", resp.StatusCode, body) }
	sess := decodeView(t, body)
	if sess.Step != "hero" { t.Fatalf("initial step: %s", sess.Step) }
	sessURL := sp.base + "/sessions/" + sess.ID

	// informational screens
	for i := 0; i < 4; i++ {
		if r, b := postJSON(t, sessURL+"/advance", nil); r.StatusCode != http.StatusOK {
			t.Fatalf("advance %d: %d (%s)", i, r.StatusCode, b)
		}
	}

	if r, b := postJSON(t, sessURL+"/steps/address", map[string]string{"location": "742 Evergreen Terrace"}); r.StatusCode != http.StatusOK {
		t.Fatalf("address: %d (%s)", r.StatusCode, b)
	}
	if r, b := postJSON(t, sessURL+"/steps/personalinfo", map[string]string{"firstName": "Jane", "lastName": "Doe"}); r.StatusCode != http.StatusOK {
		t.Fatalf("personalinfo: %d (%s)", r.StatusCode, b)
	}
	r, b := postJSON(t, sessURL+"/steps/contactinfo", map[string]string{"phone": "(555) 123-4567", "email": "jane@x.com"})
	if r.StatusCode != http.StatusOK { t.Fatalf("contactinfo: %d (%s)", r.StatusCode, b) }
	if v := decodeView(t, b); v.Form.PersonalInfo.Phone != "5551234567" {
		t.Fatalf("phone not canonical: %q", v.Form.PersonalInfo.Phone)
	}

	// multipart upload triggers the create call
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("utilityBill", "bill.pdf")
	if err != nil { t.Fatalf("form file: %v", err) }
	_, _ = fw.Write([]byte("pdf-bytes"))
	_ = mw.Close()
	upResp, err := http.Post(sessURL+"/steps/utilitybill", mw.FormDataContentType(), &buf)
	if err != nil { t.Fatalf("upload: %v", err) }
	upBody, _ := io.ReadAll(upResp.Body)
	_ = upResp.Body.Close()
	if upResp.StatusCode != http.StatusOK { t.Fatalf("upload: %d (%s)", upResp.StatusCode, upBody) }
	upView := decodeView(t, upBody)
	if upView.Step != "quiz" { t.Fatalf("step after upload: %s", upView.Step) }
	if upView.Form.CustomerID != "bb-cust-1" { t.Fatalf("customer id: %q", upView.Form.CustomerID) }

	// quiz: ownership, then a compound tile answer
	if r, b := postJSON(t, sessURL+"/steps/quiz/answer", map[string]any{"question": 0, "answer": "Yes, I own my home"}); r.StatusCode != http.StatusOK {
		t.Fatalf("quiz answer 0: %d (%s)", r.StatusCode, b)
	}
	if r, b := postJSON(t, sessURL+"/steps/quiz/next", nil); r.StatusCode != http.StatusOK {
		t.Fatalf("quiz next 0: %d (%s)", r.StatusCode, b)
	}
	if r, b := postJSON(t, sessURL+"/steps/quiz/answer", map[string]any{"question": 1, "answer": "Tile - Clay"}); r.StatusCode != http.StatusOK {
		t.Fatalf("quiz answer 1: %d (%s)", r.StatusCode, b)
	}
	r, b = postJSON(t, sessURL+"/steps/quiz/next", nil)
	if r.StatusCode != http.StatusOK { t.Fatalf("quiz next 1: %d (%s)", r.StatusCode, b) }
	if v := decodeView(t, b); v.Step != "savingsreport" { t.Fatalf("step after quiz: %s", v.Step) }

	if r, b := postJSON(t, sessURL+"/steps/savingsreport", map[string]string{"delivery": "virtual"}); r.StatusCode != http.StatusOK {
		t.Fatalf("savingsreport: %d (%s)", r.StatusCode, b)
	}

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	r, b = postJSON(t, sessURL+"/steps/scheduling", map[string]string{"date": date, "time": "2:00 PM"})
	if r.StatusCode != http.StatusOK { t.Fatalf("scheduling: %d (%s)", r.StatusCode, b) }
	final := decodeView(t, b)
	if final.Step != "thankyou" { t.Fatalf("final step: %s", final.Step) }
	if final.Progress != 1.0 { t.Fatalf("final progress: %v", final.Progress) }

	collab.mu.Lock()
	defer collab.mu.Unlock()
	if collab.creates != 1 { t.Fatalf("creates: %d", collab.creates) }
	if collab.location != "742 Evergreen Terrace" { t.Fatalf("location: %q", collab.location) }
	if collab.phone != "5551234567" { t.Fatalf("phone on wire: %q", collab.phone) }
	if collab.billName != "bill.pdf" { t.Fatalf("bill name: %q", collab.billName) }
	// quiz answers, delivery, schedule
	if len(collab.patches) != 3 { t.Fatalf("patches: %d", len(collab.patches)) }
	last := collab.patches[len(collab.patches)-1]
	if last["status"] != "Scheduled" || last["scheduledTime"] != "2:00 PM" {
		t.Fatalf("schedule patch: %+v", last)
	}
	qa, _ := collab.patches[0]["quizAnswers"].(map[string]any)
	if qa["0"] != "Yes, I own my home" || qa["1"] != "Tile - Clay" {
		t.Fatalf("quiz patch: %+v", collab.patches[0])
	}
}

func TestAdminFlow(t *testing.T) {
	if testing.Short() { t.Skip("short mode") }
	collab := &fakeCollaborator{}
	collabSrv := httptest.NewServer(collab.handler())
	defer collabSrv.Close()

	bin := buildBinary(t)
	port, closePort := findFreePort(t)
	closePort()
	sp := startServer(t, bin, collabSrv.URL, t.TempDir(), port)

	resp, err := http.Get(sp.base + "/admin/leads")
	if err != nil { t.Fatalf("get leads: %v", err) }
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized { t.Fatalf("leads before login: %d", resp.StatusCode) }

	if r, b := postJSON(t, sp.base+"/admin/login", map[string]string{"username": "admin", "password": "wrong"}); r.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: %d (%s)", r.StatusCode, b)
	}
	if r, b := postJSON(t, sp.base+"/admin/login", map[string]string{"username": "admin", "password": "solar123"}); r.StatusCode != http.StatusNoContent {
		t.Fatalf("login: %d (%s)", r.StatusCode, b)
	}

	resp, err = http.Get(sp.base + "/admin/leads")
	if err != nil { t.Fatalf("get leads: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK { t.Fatalf("leads after login: %d (%s)", resp.StatusCode, body) }
}
