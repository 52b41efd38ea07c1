package reconstruct

import "fmt"

// ensureWorkingBranch checks out the cleaned branch, creating it at the
// merge-base of source and remote on first run. Anchoring at the merge-base
// keeps the rebuilt history based on what upstream looked like when the
// messy work began, even if upstream has moved since.
func (c *Controller) ensureWorkingBranch() error {
	if c.Git.RefExists(c.Spec.Cleaned) {
		c.Reporter.Status(fmt.Sprintf("resuming on %s", c.Spec.Cleaned))
		return c.Git.Checkout(c.Spec.Cleaned)
	}

	base, err := c.Git.MergeBase(c.Spec.Source, c.Spec.Remote)
	if err != nil {
		return fmt.Errorf("merge-base of %s and %s: %w", c.Spec.Source, c.Spec.Remote, err)
	}
	c.Reporter.Status(fmt.Sprintf("creating %s at %.8s", c.Spec.Cleaned, base))
	return c.Git.CheckoutNewBranch(c.Spec.Cleaned, base)
}
