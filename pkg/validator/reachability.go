package validator

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/probe"
	"github.com/foomo/sitecheck/pkg/utils"
)

func (v *Validator) checkReachability(ctx context.Context, raw content.Raw, iss *issues) error {
	var images, links []probe.Result

	g, gctx := errgroup.WithContext(ctx)
	if v.images {
		if urls := v.imageURLs(raw); len(urls) > 0 {
			g.Go(guarded(func() {
				images = v.checker.Check(gctx, probe.KindImage, urls)
			}))
		}
	}
	if v.links {
		if urls := linkURLs(raw); len(urls) > 0 {
			g.Go(guarded(func() {
				links = v.checker.Check(gctx, probe.KindLink, urls)
			}))
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range images {
		switch {
		case res.Err != nil:
			iss.warnf("Could not validate image: %s", res.URL)
		case !res.OK():
			iss.errorf("Image not accessible: %s (%d)", res.URL, res.StatusCode)
		case !res.IsImage():
			iss.warnf("URL may not be an image: %s", res.URL)
		}
	}
	for _, res := range links {
		switch {
		case res.Err != nil:
			iss.warnf("Could not validate link: %s", res.URL)
		case !res.OK():
			iss.warnf("External link may be broken: %s (%d)", res.URL, res.StatusCode)
		}
	}
	return nil
}

// guarded turns a panic of fn into an error of the group
func guarded(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("%v", r)
			}
		}()
		fn()
		return nil
	}
}

// imageURLs team member images, insight images and images embedded in
// navigation content, in that order. The raw entries are read so that an
// entry with unexpected field types still contributes its urls.
func (v *Validator) imageURLs(raw content.Raw) []string {
	var ret []string
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return
		}
		ret = append(ret, utils.Resolve(v.baseURL, ref))
	}
	for _, section := range []string{content.SectionTeam, content.SectionInsights} {
		items, _ := content.Array(raw[section])
		for _, item := range items {
			image, _ := content.String(content.Field(item, "image"))
			add(image)
		}
	}
	navigation, _ := content.Array(raw[content.SectionNavigation])
	for _, item := range navigation {
		body, _ := content.String(content.Field(item, "content"))
		for _, src := range imageSources(body) {
			add(src)
		}
	}
	return ret
}

// linkURLs social links of all team members, keys are visited in sorted
// order so that repeated runs yield the same result
func linkURLs(raw content.Raw) []string {
	var ret []string
	team, _ := content.Array(raw[content.SectionTeam])
	for _, member := range team {
		social, ok := content.Object(content.Field(member, "social"))
		if !ok {
			continue
		}
		keys := make([]string, 0, len(social))
		for key := range social {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			link, ok := social[key].(string)
			if !ok || link == "" || link == "#" || !strings.HasPrefix(link, "http") {
				continue
			}
			ret = append(ret, link)
		}
	}
	return ret
}

func imageSources(body string) []string {
	if body == "" {
		return nil
	}
	var ret []string
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ret
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" && len(val) > 0 {
					ret = append(ret, string(val))
				}
			}
		}
	}
}
