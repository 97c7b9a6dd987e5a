package planc

import "math"

// assembleCheckpointing implements C7: build the trigger/ack/commit
// vertex lists, resolve the retention policy, and eagerly serialize the
// master-hook factories and the state backend.
func (b *builder) assembleCheckpointing() (*CheckpointingSettings, error) {
	cfg := b.graph.CheckpointConfig

	interval := cfg.IntervalMS
	if interval <= 0 {
		interval = math.MaxInt64
	} else if cfg.FailOnCheckpointingErrors {
		b.graph.ExecutionConfig.FailTaskOnCheckpointError = true
	}

	var exactlyOnce bool
	if cfg.Enabled {
		switch cfg.Mode {
		case CheckpointModeExactlyOnce:
			exactlyOnce = true
		case CheckpointModeAtLeastOnce:
			exactlyOnce = false
		default:
			return nil, optionErr("checkpointMode", ErrInvalidCheckpointMode)
		}
	}

	retention, err := retentionPolicy(cfg)
	if err != nil {
		return nil, err
	}

	var trigger, ack, commit []JobVertexID
	for _, v := range b.jobGraph.Vertices {
		if v.NumInputs == 0 {
			trigger = append(trigger, v.ID)
		}
		ack = append(ack, v.ID)
		commit = append(commit, v.ID)
	}

	hooks, err := b.collectMasterHooks()
	if err != nil {
		return nil, err
	}
	var hooksBlob []byte
	if len(hooks) > 0 {
		hooksBlob, err = marshalJSON(hooks)
		if err != nil {
			return nil, optionErr("masterHooks", ErrNonSerializableHook)
		}
	}

	var backendBlob []byte
	if b.graph.StateBackend != nil {
		backendBlob, err = b.graph.StateBackend.Serialize()
		if err != nil {
			return nil, optionErr("stateBackend", ErrNonSerializableStateBackend)
		}
	}

	return &CheckpointingSettings{
		IntervalMS:                interval,
		ExactlyOnce:               exactlyOnce,
		FailOnCheckpointingErrors: cfg.FailOnCheckpointingErrors,
		TriggerVertices:           trigger,
		AckVertices:               ack,
		CommitVertices:            commit,
		RetentionPolicy:           retention,
		MasterHooksBlob:           hooksBlob,
		StateBackendBlob:          backendBlob,
	}, nil
}

// retentionPolicy maps a checkpoint config's externalization and cleanup
// settings to a retention policy. An externalized config with an unset
// cleanup policy is a fatal configuration error.
func retentionPolicy(cfg CheckpointConfig) (RetentionPolicy, error) {
	if !cfg.Externalized {
		return RetentionNeverRetain, nil
	}
	switch cfg.Cleanup {
	case CleanupDeleteOnCancel:
		return RetentionOnFailure, nil
	case CleanupRetainOnCancellation:
		return RetentionOnCancellation, nil
	default:
		return 0, optionErr("externalizedCleanup", ErrInvalidExternalizedCleanup)
	}
}

// collectMasterHooks gathers a serialized factory for every node whose
// operator declares the master-trigger-hook capability, in ascending
// node-id order.
func (b *builder) collectMasterHooks() ([][]byte, error) {
	var hooks [][]byte
	for _, id := range b.graph.SortedNodeIDs() {
		node := b.graph.Node(id)
		provider, ok := node.Operator.(MasterTriggerHookProvider)
		if !ok {
			continue
		}
		factory := provider.MasterTriggerHookFactory()
		if factory == nil {
			continue
		}
		blob, err := factory.Serialize()
		if err != nil {
			return nil, nodeErr(id, ErrNonSerializableHook, "master checkpoint hook failed serialization")
		}
		hooks = append(hooks, blob)
	}
	return hooks, nil
}
