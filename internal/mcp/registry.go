package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/internal/domain/tracker"
	"github.com/honeycarbs/jobscout/internal/mcp/tools"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// Resources holds everything the tools run against
type Resources struct {
	Jobs     *job.Service
	Tracker  *tracker.Service
	Exporter tracker.Exporter // nil when Google Sheets is not configured
	Sheet    tools.SheetDefaults
	Metrics  *prometheus.Registry
}

func registerTools(server *sdkmcp.Server, res *Resources, logger *logging.Logger) {
	if res == nil {
		logger.Warn("no resources provided, MCP server has no tools")
		return
	}

	var opts []tools.Option
	if res.Jobs != nil {
		var trk tools.Tracker
		if res.Tracker != nil {
			trk = res.Tracker
		}
		opts = append(opts, tools.WithJobSearch(res.Jobs, trk))
	}
	if res.Tracker != nil {
		var jobs tools.JobService
		if res.Jobs != nil {
			jobs = res.Jobs
		}
		opts = append(opts, tools.WithTracker(res.Tracker, jobs))
		if res.Exporter != nil {
			opts = append(opts, tools.WithApplicationsExport(res.Tracker, res.Exporter, res.Sheet))
		} else {
			logger.Info("Google Sheets not configured, applications_export disabled")
		}
	}

	tools.Register(server, logger, opts...)
}
