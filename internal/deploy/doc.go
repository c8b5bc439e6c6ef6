// Package deploy installs and launches assembled bundles.
//
// Each platform gets one Launcher: desktop bundles are opened or executed
// in the local session, iOS bundles are installed on a simulator through
// simctl, and Android and web builds are left for the user to deploy.
package deploy
