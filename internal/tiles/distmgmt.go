// SPDX-License-Identifier: MPL-2.0

package tiles

import (
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/pkg/pom"
)

// Deployment URL override properties, most specific first.
const (
	PropAltReleaseRepository  = "altReleaseDeploymentRepository"
	PropAltSnapshotRepository = "altSnapshotDeploymentRepository"
	PropAltRepository         = "altDeploymentRepository"
)

var defaultPolicy = pom.RepositoryPolicy{Enabled: "true", UpdatePolicy: "always", ChecksumPolicy: "warn"}

// FixDistributionRepositories sets the project's release and snapshot deployment
// repositories from its distribution management. A declared repository with the same id is
// reused; otherwise the URL honors the alt*DeploymentRepository properties.
func FixDistributionRepositories(p *project.Project) {
	dm := p.Model.DistributionManagement
	if dm == nil {
		return
	}
	props := p.Model.Properties
	if dm.Repository != nil {
		p.ReleaseRepository = deployRepository(p.Model, dm.Repository,
			firstNonEmpty(props.Value(PropAltReleaseRepository), props.Value(PropAltRepository), dm.Repository.URL))
	}
	if dm.SnapshotRepository != nil {
		p.SnapshotRepository = deployRepository(p.Model, dm.SnapshotRepository,
			firstNonEmpty(props.Value(PropAltSnapshotRepository), props.Value(PropAltRepository), dm.SnapshotRepository.URL))
	}
}

func deployRepository(m *pom.Model, target *pom.Repository, url string) *project.DeployRepository {
	for _, r := range m.Repositories {
		if r.ID == target.ID {
			return &project.DeployRepository{ID: r.ID, URL: r.URL, Releases: policy(r.Releases), Snapshots: policy(r.Snapshots)}
		}
	}
	return &project.DeployRepository{
		ID:        target.ID,
		URL:       url,
		Releases:  policy(target.Releases),
		Snapshots: policy(target.Snapshots),
	}
}

func policy(p *pom.RepositoryPolicy) pom.RepositoryPolicy {
	if p == nil {
		return defaultPolicy
	}
	return *p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
