// Package publiccapsule serves capsules their authors made public, once their
// opening time has passed. Reads go through the shared cache first.
package publiccapsule
