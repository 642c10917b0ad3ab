package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeListSubjects() string {
	return `Lists the subjects (probands) of a measurement table as "First Last, BirthDate" identities.

USE WHEN:
- Looking up the exact identity to pass to compare_subject or subject_briefing
- Checking that a table loads and has the identification columns

INTERPRETING RESULTS:
- Identities are listed in table order, duplicates once
- A table without Jmeno, Prijmeni or Narozen columns is rejected`
}

func describeCompareSubject() string {
	return `Compares one subject's measurements against a reference: the group average of a population, or an archived earlier measurement of the same subject.

USE WHEN:
- Judging where a player stands relative to the squad
- Tracking a player's progress between two testing sessions
- Preparing talking points before writing a closing recommendation

INTERPRETING RESULTS:
- diff = current - reference
- |diff| < 0.1: comparable to the reference
- direction tells whether higher or lower values are desirable; "optimal" metrics (IR/ER ratios, trunk mass) are best close to the reference
- imputed: the subject's cell was empty and counted as zero, treat with caution
- dropped: metrics without a usable reference value (history mode only)

MODES:
- group (default): population current averages the loaded table, archive averages every archived measurement
- history: compares against the archived snapshot at date, or the latest one`
}

func describePopulationStats() string {
	return `Computes extended statistics for every selected metric across the whole table: count, mean, median, best, worst and a 95% percentile interval.

USE WHEN:
- Describing the spread of the group before comparing individuals
- Spotting metrics with too few measurements to be meaningful

INTERPRETING RESULTS:
- best is the maximum for metrics where higher is better and the minimum otherwise
- ci_low and ci_high are the 2.5th and 97.5th percentiles
- Empty values stand for metrics whose column contains unusable numbers`
}

func describeSubjectBriefing() string {
	return `Renders the plain-text briefing for a subject: identification, the measurement results table and the instructions for writing a closing evaluation.

USE WHEN:
- Drafting the closing recommendation of a report
- Handing a compact result summary to another assistant

INTERPRETING RESULTS:
- Returned as plain text unless a format is requested
- Rows use the same comparison basis options as compare_subject`
}

func describeListSnapshots() string {
	return `Lists the archived measurement dates of a subject.

USE WHEN:
- Choosing the historical measurement for a history-mode comparison
- Checking whether a subject has been archived at all

INTERPRETING RESULTS:
- Dates use the YYYY-MM-DD HH:MM:SS layout, oldest first
- An empty list means the subject has no archived measurement`
}
