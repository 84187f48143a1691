package board

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/harbor-data/model.report/internal/httputil"
)

// AttachAdminRoutes mounts the board's operational endpoints on mux: a
// tailsql live SQL browser for ad hoc queries over the pin store, and an
// on-demand backup download.
func (b *Board) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+b.path, b.DB, &tailsql.DBOptions{
		Label: "Pin Board",
	})
	debug.Handle("tailsql/", "SQL browser over the pin board", tsql.NewMux())

	debug.Handle("backup", "Create and download a board backup", http.HandlerFunc(b.handleBackup))
	return nil
}

func (b *Board) handleBackup(w http.ResponseWriter, r *http.Request) {
	backupPath := fmt.Sprintf("board-backup-%d.db", time.Now().Unix())
	if _, err := b.Exec("VACUUM INTO ?", backupPath); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create backup: %v", err))
		return
	}
	defer os.Remove(backupPath)

	backup, err := os.Open(backupPath)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to open backup: %v", err))
		return
	}
	defer backup.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, backupPath, time.Now(), backup)
}
