// Package ansible runs rendered playbooks with ansible-playbook.
//
// The engine selects the JSON-lines stdout callback and turns its stream
// into provisioning.TaskEvents and final per-host statistics. Host failures
// and unreachable hosts are reported as statistics; only a missing binary, a
// crash or an output stream without a stats record is an error.
package ansible
