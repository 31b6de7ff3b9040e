package focus

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studyplanner/internal/logging"
)

// KeyDNDEnabled records the do-not-disturb state in the metadata table.
const KeyDNDEnabled = "focus_dnd_enabled"

// LocalController is the terminal's Controller. It has no system mode to
// switch, so it records the state where other tools can read it.
type LocalController struct {
	repo       metadata.Repository
	authorized bool
	log        logging.Logger
}

func NewLocalController(repo metadata.Repository, authorized bool, log logging.Logger) *LocalController {
	if log == nil {
		log = logging.NewNop()
	}
	return &LocalController{repo: repo, authorized: authorized, log: log}
}

func (c *LocalController) RequestAuthorization(context.Context) bool {
	return c.authorized
}

func (c *LocalController) EnableFocus(ctx context.Context, a Activity) bool {
	if !c.authorized {
		return false
	}
	if err := c.repo.Set(ctx, KeyDNDEnabled, []byte("true")); err != nil {
		c.log.Warn(ctx, "enable focus", "error", err)
		return false
	}
	c.log.Info(ctx, "focus on", "activity", a.Name)
	return true
}

func (c *LocalController) DisableFocus(ctx context.Context) bool {
	if err := c.repo.Set(ctx, KeyDNDEnabled, []byte("false")); err != nil {
		c.log.Warn(ctx, "disable focus", "error", err)
		return false
	}
	c.log.Info(ctx, "focus off")
	return true
}

// Enabled reads the recorded state.
func (c *LocalController) Enabled(ctx context.Context) (bool, error) {
	v, err := c.repo.Get(ctx, KeyDNDEnabled)
	if err != nil {
		return false, err
	}
	on, _ := strconv.ParseBool(string(v))
	return on, nil
}
