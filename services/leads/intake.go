package leads

import (
	"context"
	"sync"
	"time"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/leadclient"
	"github.com/runner-mei/resty"
	"golang.org/x/exp/slog"
)

const (
	CfgIntakeURL   = "leads.intake_url"
	CfgIntakeToken = "leads.intake_token"
)

// Lead 一次通过校验的提交，Fields 只包含可见的字段
type Lead struct {
	Tenant      string            `json:"tenant"`
	Fields      map[string]string `json:"fields"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Intake 接收留资的下游
type Intake interface {
	Submit(ctx context.Context, lead *Lead) error
}

// NewIntake 配置了 leads.intake_url 时转发到该地址，否则只记录日志
func NewIntake(env *leadclient.Environment) (Intake, error) {
	logger := env.Logger.WithGroup("leads")

	urlstr := env.Config.StringWithDefault(CfgIntakeURL, "")
	if urlstr == "" {
		logger.Warn("'" + CfgIntakeURL + "' is missing, leads are only logged")
		return &logIntake{logger: logger}, nil
	}

	pxy, err := leadclient.NewResty(urlstr)
	if err != nil {
		return nil, errors.Wrap(err, "create intake client for '"+urlstr+"' fail")
	}
	return &httpIntake{
		logger: logger,
		proxy:  pxy,
		token:  env.Config.StringWithDefault(CfgIntakeToken, ""),
	}, nil
}

type httpIntake struct {
	logger *slog.Logger
	proxy  *resty.Proxy
	token  string
}

func (hi *httpIntake) Submit(ctx context.Context, lead *Lead) error {
	request := resty.NewRequest(hi.proxy, "").
		SetBody(lead)
	if hi.token != "" {
		request = request.SetHeader("Authorization", "Bearer "+hi.token)
	}
	defer resty.ReleaseRequest(hi.proxy, request)

	err := request.POST(ctx)
	if err != nil {
		hi.logger.WarnContext(ctx, "forward lead fail",
			leadclient.Tenant(lead.Tenant),
			leadclient.Error(err))
		return errors.Wrap(err, "forward lead of '"+lead.Tenant+"' fail")
	}
	hi.logger.InfoContext(ctx, "forward lead ok",
		leadclient.Tenant(lead.Tenant),
		slog.Int("fields", len(lead.Fields)))
	return nil
}

type logIntake struct {
	logger *slog.Logger
}

func (li *logIntake) Submit(ctx context.Context, lead *Lead) error {
	li.logger.InfoContext(ctx, "lead is received",
		leadclient.Tenant(lead.Tenant),
		slog.Any("fields", lead.Fields),
		slog.Time("submittedAt", lead.SubmittedAt))
	return nil
}

// Recorder 记录收到的留资，用于测试
type Recorder struct {
	mu    sync.Mutex
	leads []Lead
	Err   error
}

func (r *Recorder) Submit(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.leads = append(r.leads, *lead)
	return nil
}

func (r *Recorder) Leads() []Lead {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Lead(nil), r.leads...)
}
