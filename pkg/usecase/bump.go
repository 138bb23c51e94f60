package usecase

import (
	"context"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

// BumpInput is the input of BumpCalculator.Compute
type BumpInput struct {
	ProjectRoot string
	ExtraRoots  []string // Dependency roots whose history also counts
	TagPrefix   string
	ReleaseAs   string // Explicit bump level or exact version; empty to derive from history
	Preid       string
}

// BumpCalculator decides whether a release is warranted and what the next version is
type BumpCalculator struct {
	git        interfaces.GitClient
	classifier interfaces.CommitClassifier
}

// NewBumpCalculator creates a new BumpCalculator
func NewBumpCalculator(git interfaces.GitClient, classifier interfaces.CommitClassifier) *BumpCalculator {
	return &BumpCalculator{
		git:        git,
		classifier: classifier,
	}
}

// Compute returns the bump decision. With an explicit release type the decision never is
// "no change" and does not depend on commit history.
func (c *BumpCalculator) Compute(ctx context.Context, input *BumpInput) (*model.BumpDecision, error) {
	logger := ctxlog.From(ctx)

	releaseAs := strings.TrimSpace(input.ReleaseAs)
	includePre := input.Preid != "" || model.ReleaseType(releaseAs).IsPre()

	latest, latestTag, err := c.latestVersion(ctx, input.TagPrefix, includePre)
	if err != nil {
		return nil, err
	}

	decision := &model.BumpDecision{
		PreviousVersion: latest.String(),
		PreviousTag:     latestTag,
	}

	if releaseAs != "" {
		next, err := explicitVersion(latest, releaseAs, input.Preid)
		if err != nil {
			return nil, err
		}
		decision.NextVersion = next.String()
		decision.Explicit = true
		logger.Debug("Computed explicit version",
			"release_as", releaseAs,
			"previous", decision.PreviousVersion,
			"next", decision.NextVersion,
		)
		return decision, nil
	}

	roots := append([]string{input.ProjectRoot}, input.ExtraRoots...)
	infos, err := collectCommits(ctx, c.git, c.classifier, latestTag, roots)
	if err != nil {
		return nil, err
	}

	decision.Significance = highestSignificance(infos)
	logger.Debug("Classified history",
		"roots", roots,
		"since_tag", latestTag,
		"commit_count", len(infos),
		"significance", decision.Significance.String(),
	)

	if decision.Significance == model.SignificanceNone {
		return decision, nil
	}

	releaseType := decision.Significance.ReleaseType()
	if input.Preid != "" {
		if isPrereleaseOf(latest, input.Preid) && prereleaseCovers(latest, releaseType) {
			releaseType = model.ReleaseTypePrerelease
		} else {
			releaseType = releaseType.Pre()
		}
	}

	next, err := increment(latest, releaseType, input.Preid)
	if err != nil {
		return nil, err
	}
	decision.NextVersion = next.String()

	return decision, nil
}

// latestVersion finds the highest version tagged with prefix. Prerelease versions are only
// considered when includePre is set. Without any matching tag it returns 0.0.0 and no tag.
func (c *BumpCalculator) latestVersion(ctx context.Context, prefix string, includePre bool) (semver.Version, string, error) {
	tags, err := c.git.Tags(ctx)
	if err != nil {
		return semver.Version{}, "", goerr.Wrap(err, "failed to list tags",
			goerr.V("tag_prefix", prefix),
			goerr.T(types.ErrTagHistoryRead))
	}

	var (
		latest    semver.Version
		latestTag string
	)
	for _, tag := range tags {
		if !strings.HasPrefix(tag, prefix) {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(tag, prefix))
		if err != nil {
			continue
		}
		if len(v.Pre) > 0 && !includePre {
			continue
		}
		if latestTag == "" || v.GT(latest) {
			latest = v
			latestTag = tag
		}
	}

	return latest, latestTag, nil
}

// explicitVersion applies a bump level, or parses an exact version
func explicitVersion(latest semver.Version, releaseAs, preid string) (semver.Version, error) {
	if rt := model.ReleaseType(releaseAs); rt.IsValid() {
		return increment(latest, rt, preid)
	}

	v, err := semver.Parse(strings.TrimPrefix(releaseAs, "v"))
	if err != nil {
		return semver.Version{}, goerr.Wrap(err, "release type is neither a bump level nor a semantic version",
			goerr.V("release_as", releaseAs),
			goerr.T(types.ErrTagInvalidRequest))
	}
	return v, nil
}

// prereleaseCovers reports whether the prerelease v already is at least the bump level of
// releaseType, so counting it up keeps the significance. 2.0.0-beta.3 covers a major bump,
// 1.1.0-beta.0 a minor one and any prerelease a patch.
func prereleaseCovers(v semver.Version, releaseType model.ReleaseType) bool {
	switch releaseType {
	case model.ReleaseTypeMajor:
		return v.Minor == 0 && v.Patch == 0
	case model.ReleaseTypeMinor:
		return v.Patch == 0
	}
	return true
}

func isPrereleaseOf(v semver.Version, preid string) bool {
	return len(v.Pre) > 0 && !v.Pre[0].IsNum && v.Pre[0].VersionStr == preid
}

// increment bumps v by releaseType. A prerelease of the target version is promoted instead
// of bumped again, so 1.1.0-beta.2 with "minor" becomes 1.1.0.
func increment(v semver.Version, releaseType model.ReleaseType, preid string) (semver.Version, error) {
	next := semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Pre: v.Pre}

	switch releaseType {
	case model.ReleaseTypeMajor:
		if next.Minor != 0 || next.Patch != 0 || len(next.Pre) == 0 {
			next.Major++
		}
		next.Minor, next.Patch, next.Pre = 0, 0, nil
	case model.ReleaseTypeMinor:
		if next.Patch != 0 || len(next.Pre) == 0 {
			next.Minor++
		}
		next.Patch, next.Pre = 0, nil
	case model.ReleaseTypePatch:
		if len(next.Pre) == 0 {
			next.Patch++
		}
		next.Pre = nil
	case model.ReleaseTypePremajor:
		next.Major++
		next.Minor, next.Patch, next.Pre = 0, 0, nil
		return withPrerelease(next, preid)
	case model.ReleaseTypePreminor:
		next.Minor++
		next.Patch, next.Pre = 0, nil
		return withPrerelease(next, preid)
	case model.ReleaseTypePrepatch:
		next.Patch++
		next.Pre = nil
		return withPrerelease(next, preid)
	case model.ReleaseTypePrerelease:
		if len(next.Pre) == 0 {
			next.Patch++
		}
		return withPrerelease(next, preid)
	default:
		return semver.Version{}, goerr.New("unknown release type",
			goerr.V("release_type", releaseType),
			goerr.T(types.ErrTagInvalidRequest))
	}

	return next, nil
}

// withPrerelease starts or advances the prerelease counter of v
func withPrerelease(v semver.Version, preid string) (semver.Version, error) {
	zero := semver.PRVersion{VersionNum: 0, IsNum: true}

	if len(v.Pre) == 0 || (preid != "" && !isPrereleaseOf(v, preid)) {
		if preid == "" {
			v.Pre = []semver.PRVersion{zero}
			return v, nil
		}
		id, err := semver.NewPRVersion(preid)
		if err != nil {
			return semver.Version{}, goerr.Wrap(err, "invalid prerelease identifier",
				goerr.V("preid", preid),
				goerr.T(types.ErrTagInvalidRequest))
		}
		v.Pre = []semver.PRVersion{id, zero}
		return v, nil
	}

	pre := make([]semver.PRVersion, len(v.Pre))
	copy(pre, v.Pre)
	for i := len(pre) - 1; i >= 0; i-- {
		if pre[i].IsNum {
			pre[i].VersionNum++
			v.Pre = pre
			return v, nil
		}
	}
	v.Pre = append(pre, zero)
	return v, nil
}
