package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"

	pkgneo4j "github.com/honeycarbs/jobscout/pkg/neo4j"
)

var _ jobdomain.Archive = (*JobArchive)(nil)

// JobArchive keeps canonical jobs from live searches as a graph of
// (:Job)-[:POSTED_BY]->(:Company) and (:Job)-[:FROM]->(:Source)
type JobArchive struct {
	client *pkgneo4j.Client
	clock  func() time.Time
}

// NewJobArchive creates a JobArchive with a Neo4j client
func NewJobArchive(client *pkgneo4j.Client) *JobArchive {
	return &JobArchive{
		client: client,
		clock:  time.Now,
	}
}

const upsertJobsQuery = `
	UNWIND $jobs AS job
	MERGE (j:Job {id: job.id})
	SET j.title = job.title,
	    j.location = job.location,
	    j.salaryDisplay = job.salaryDisplay,
	    j.description = job.description,
	    j.applyUrl = job.applyUrl,
	    j.postedDisplay = job.postedDisplay,
	    j.employmentType = job.employmentType,
	    j.category = job.category,
	    j.rawPostedAt = job.rawPostedAt,
	    j.postedAt = CASE WHEN job.postedAt IS NULL THEN null ELSE datetime({epochMillis: job.postedAt}) END,
	    j.rawMinSalary = job.rawMinSalary,
	    j.rawMaxSalary = job.rawMaxSalary,
	    j.archivedAt = datetime({epochMillis: job.archivedAt})
	MERGE (c:Company {name: job.company})
	MERGE (j)-[:POSTED_BY]->(c)
	MERGE (s:Source {name: job.source})
	MERGE (j)-[:FROM]->(s)
`

const findJobsQuery = `
	MATCH (j:Job)
	WHERE j.id IN $ids
	OPTIONAL MATCH (j)-[:POSTED_BY]->(c:Company)
	OPTIONAL MATCH (j)-[:FROM]->(s:Source)
	RETURN j, c.name AS company, s.name AS source
`

// UpsertJobs merges jobs by ID
func (r *JobArchive) UpsertJobs(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	archivedAt := r.clock().UnixMilli()
	rows := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, jobParams(j, archivedAt))
	}

	_, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, upsertJobsQuery, map[string]any{"jobs": rows})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("archive %d jobs: %w", len(jobs), err)
	}
	return nil
}

// FindByIDs loads archived jobs. Unknown IDs are skipped.
func (r *JobArchive) FindByIDs(ctx context.Context, ids []string) ([]domain.Job, error) {
	if len(ids) == 0 {
		return []domain.Job{}, nil
	}

	out, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, findJobsQuery, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}

		jobs := make([]domain.Job, 0, len(ids))
		for result.Next(ctx) {
			record := result.Record()
			node, _, err := neo4j.GetRecordValue[neo4j.Node](record, "j")
			if err != nil {
				continue
			}
			company, _, _ := neo4j.GetRecordValue[string](record, "company")
			source, _, _ := neo4j.GetRecordValue[string](record, "source")
			jobs = append(jobs, jobFromProps(node.Props, company, source))
		}
		return jobs, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("find archived jobs: %w", err)
	}

	return out.([]domain.Job), nil
}

func jobParams(j domain.Job, archivedAt int64) map[string]any {
	params := map[string]any{
		"id":             j.ID,
		"title":          j.Title,
		"company":        j.Company,
		"location":       j.Location,
		"salaryDisplay":  j.SalaryDisplay,
		"description":    j.Description,
		"applyUrl":       j.ApplyURL,
		"postedDisplay":  j.PostedDisplay,
		"employmentType": j.EmploymentType,
		"category":       j.Category,
		"source":         j.Source,
		"rawPostedAt":    j.RawPostedAt,
		"postedAt":       nil,
		"rawMinSalary":   nil,
		"rawMaxSalary":   nil,
		"archivedAt":     archivedAt,
	}
	if !j.PostedAt.IsZero() {
		params["postedAt"] = j.PostedAt.UnixMilli()
	}
	if j.RawMinSalary != nil {
		params["rawMinSalary"] = *j.RawMinSalary
	}
	if j.RawMaxSalary != nil {
		params["rawMaxSalary"] = *j.RawMaxSalary
	}
	return params
}

func jobFromProps(props map[string]any, company, source string) domain.Job {
	str := func(key string) string {
		s, _ := props[key].(string)
		return s
	}
	num := func(key string) *float64 {
		switch v := props[key].(type) {
		case float64:
			return &v
		case int64:
			f := float64(v)
			return &f
		default:
			return nil
		}
	}

	j := domain.Job{
		ID:             str("id"),
		Title:          str("title"),
		Company:        company,
		Location:       str("location"),
		SalaryDisplay:  str("salaryDisplay"),
		Description:    str("description"),
		ApplyURL:       str("applyUrl"),
		PostedDisplay:  str("postedDisplay"),
		EmploymentType: str("employmentType"),
		Category:       str("category"),
		Source:         source,
		RawPostedAt:    str("rawPostedAt"),
		RawMinSalary:   num("rawMinSalary"),
		RawMaxSalary:   num("rawMaxSalary"),
	}
	switch v := props["postedAt"].(type) {
	case time.Time:
		j.PostedAt = v.UTC()
	case neo4j.LocalDateTime:
		j.PostedAt = v.Time().UTC()
	}
	return j
}
